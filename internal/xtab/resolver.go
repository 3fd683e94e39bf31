// Cell resolution. Once the distinct row and column keys are known, every
// output cell has a fixed address in a dense matrix; resolving the input is a
// second linear pass that writes each row's value columns into their cells.
//
// Cells are never aggregated. The first value written to an address wins;
// later writes are discarded and counted so the caller can report how many
// input rows were dropped per cell.
package xtab

import "fmt"

// cellStore holds resolved cell values in a flat matrix indexed by
// (rowKey, colKey, valueCol). A parallel write-count slice distinguishes
// "never written" from "written once" from "collided".
type cellStore struct {
	nCols, nVals int
	vals         []string
	writes       []int
}

func newCellStore(nRows, nCols, nVals int) *cellStore {
	n := nRows * nCols * nVals
	return &cellStore{
		nCols:  nCols,
		nVals:  nVals,
		vals:   make([]string, n),
		writes: make([]int, n),
	}
}

func (c *cellStore) index(r, cl, v int) int {
	return (r*c.nCols+cl)*c.nVals + v
}

// put writes val at (r, cl, v) if the cell is empty. It reports whether the
// write landed; a false return means the cell already held a value and the
// new one was discarded.
func (c *cellStore) put(r, cl, v int, val string) bool {
	i := c.index(r, cl, v)
	c.writes[i]++
	if c.writes[i] > 1 {
		return false
	}
	c.vals[i] = val
	return true
}

// get returns the cell value and whether it was ever written.
func (c *cellStore) get(r, cl, v int) (string, bool) {
	i := c.index(r, cl, v)
	return c.vals[i], c.writes[i] > 0
}

// Collision reports one output cell that received more than one candidate
// value. Extra counts the discarded input rows (total writes minus one).
type Collision struct {
	RowKey   KeyTuple
	ColKey   KeyTuple
	ValueCol string
	Extra    int
}

// String renders the collision the way the CLI reports it.
func (c Collision) String() string {
	return fmt.Sprintf("cell (%s, %s, %s): %d extra row(s) discarded",
		c.RowKey.Label(","), c.ColKey.Label(","), c.ValueCol, c.Extra)
}

// collisions walks the store in row-major order and returns one entry per
// collided address, so the report order is deterministic for a given input.
func (c *cellStore) collisions(rowKeys, colKeys []KeyTuple, valueCols []string) []Collision {
	var out []Collision
	for r := range rowKeys {
		for cl := range colKeys {
			for v := range valueCols {
				if n := c.writes[c.index(r, cl, v)]; n > 1 {
					out = append(out, Collision{
						RowKey:   rowKeys[r],
						ColKey:   colKeys[cl],
						ValueCol: valueCols[v],
						Extra:    n - 1,
					})
				}
			}
		}
	}
	return out
}
