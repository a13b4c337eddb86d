package lazy

import (
	"maps"
	"slices"
)

// Index maps atomic number to records in file order.
// A key exists only once a record has been added for it.
// The zero value is an empty index ready to use.
type Index[R any] struct {
	m     map[int][]R
	count int
}

// Add appends r to the records of z.
func (ix *Index[R]) Add(z int, r R) {
	if ix.m == nil {
		ix.m = make(map[int][]R)
	}
	ix.m[z] = append(ix.m[z], r)
	ix.count++
}

// Records returns a copy of the records for z, or nil if z is absent.
func (ix *Index[R]) Records(z int) []R {
	return slices.Clone(ix.m[z])
}

// Each calls fn for every record of z in file order without copying.
// fn must not retain r beyond the call.
func (ix *Index[R]) Each(z int, fn func(r *R) bool) {
	recs := ix.m[z]
	for i := range recs {
		if !fn(&recs[i]) {
			return
		}
	}
}

// Has reports whether z has at least one record.
func (ix *Index[R]) Has(z int) bool {
	_, ok := ix.m[z]
	return ok
}

// Keys returns the atomic numbers present, ascending.
func (ix *Index[R]) Keys() []int {
	return slices.Sorted(maps.Keys(ix.m))
}

// Len returns the number of atomic numbers.
func (ix *Index[R]) Len() int { return len(ix.m) }

// Count returns the total number of records.
func (ix *Index[R]) Count() int { return ix.count }

// Mutate calls fn with the mutable records of z. Used by decoders for
// post-parse passes before the index is published.
func (ix *Index[R]) Mutate(z int, fn func(recs []R)) {
	if recs, ok := ix.m[z]; ok {
		fn(recs)
	}
}
