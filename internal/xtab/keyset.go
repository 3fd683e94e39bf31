// Key tuples and the ordered-unique collections that hold them.
//
// Output row and column headers must appear in the order their key values are
// first seen in the input, never sorted. A KeySet therefore tracks membership
// with a hash index but keeps insertion order as the only iteration order.
package xtab

import (
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/unicode/norm"
)

// KeyTuple is an ordered sequence of canonicalized cell values identifying
// one distinct row group or column group. Tuples compare by structural
// equality of their elements.
type KeyTuple []string

// canonical normalizes a raw cell value before it participates in key
// identity: surrounding space is dropped and the text is NFC-normalized so
// composed and decomposed spellings of the same string hash identically.
func canonical(s string) string {
	s = strings.TrimSpace(s)
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Equal reports whether k and o have the same elements in the same order.
func (k KeyTuple) Equal(o KeyTuple) bool {
	if len(k) != len(o) {
		return false
	}
	for i := range k {
		if k[i] != o[i] {
			return false
		}
	}
	return true
}

// Label joins the tuple elements with sep for display in headers and
// diagnostics.
func (k KeyTuple) Label(sep string) string { return strings.Join(k, sep) }

// tupleSep separates elements in the hashed encoding so that ("ab","c") and
// ("a","bc") produce different digests.
const tupleSep = 0x1f

// hashTuple returns the xxh3 digest of the tuple's separator-delimited
// encoding. buf is reused across calls to avoid per-row allocations.
func hashTuple(k KeyTuple, buf []byte) (uint64, []byte) {
	buf = buf[:0]
	for _, v := range k {
		buf = append(buf, v...)
		buf = append(buf, tupleSep)
	}
	return xxh3.Hash(buf), buf
}

// KeySet is an ordered-unique collection of KeyTuples. Membership is checked
// via an xxh3 bucket index and confirmed by structural comparison, so hash
// collisions cannot conflate distinct tuples. Iteration order is first-seen
// order.
type KeySet struct {
	buckets map[uint64][]int
	order   []KeyTuple
	buf     []byte
}

// NewKeySet returns an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{buckets: make(map[uint64][]int)}
}

// Add inserts k if it is not already present and returns its index. The
// index of a tuple never changes once assigned.
func (s *KeySet) Add(k KeyTuple) int {
	var h uint64
	h, s.buf = hashTuple(k, s.buf)
	for _, i := range s.buckets[h] {
		if s.order[i].Equal(k) {
			return i
		}
	}
	i := len(s.order)
	s.order = append(s.order, k)
	s.buckets[h] = append(s.buckets[h], i)
	return i
}

// Index returns the position of k, or false when k was never added.
func (s *KeySet) Index(k KeyTuple) (int, bool) {
	var h uint64
	h, s.buf = hashTuple(k, s.buf)
	for _, i := range s.buckets[h] {
		if s.order[i].Equal(k) {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of distinct tuples.
func (s *KeySet) Len() int { return len(s.order) }

// Tuples returns the distinct tuples in first-seen order. The slice is the
// set's backing storage; callers must not modify it.
func (s *KeySet) Tuples() []KeyTuple { return s.order }
