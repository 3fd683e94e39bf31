package table

import (
	"strings"
	"testing"
)

func TestWriteCSV_SingleHeader(t *testing.T) {
	t.Parallel()

	tbl := New([]string{"region", "Jan_sales"})
	tbl.Rows = [][]string{{"E", "10"}, {"W", ""}}

	var sb strings.Builder
	if err := WriteCSV(&sb, tbl, 0); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "region,Jan_sales\nE,10\nW,\n"
	if sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}

func TestWriteCSV_MultiRowHeader(t *testing.T) {
	t.Parallel()

	tbl := &Table{
		Header: [][]string{
			{"", "Jan", "Feb"},
			{"region", "sales", "sales"},
		},
		Rows: [][]string{{"E", "10", "20"}},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, tbl, 0); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := ",Jan,Feb\nregion,sales,sales\nE,10,20\n"
	if sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}

func TestWriteCSV_CustomDelimiter(t *testing.T) {
	t.Parallel()

	tbl := New([]string{"a", "b"})
	tbl.Rows = [][]string{{"1", "2"}}

	var sb strings.Builder
	if err := WriteCSV(&sb, tbl, ';'); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if want := "a;b\n1;2\n"; sb.String() != want {
		t.Fatalf("output = %q, want %q", sb.String(), want)
	}
}
