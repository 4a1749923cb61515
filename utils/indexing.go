package utils

import "sort"

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

func (I Index) Copy() (r Index) {
	r = make(Index, len(I))
	copy(r, I)
	return
}

func (I Index) Contains(val int) bool {
	for _, ival := range I {
		if ival == val {
			return true
		}
	}
	return false
}

// Position returns the index of val within I, or -1 when absent. I must be
// sorted ascending.
func (I Index) Position(val int) int {
	pos := sort.SearchInts(I, val)
	if pos < len(I) && I[pos] == val {
		return pos
	}
	return -1
}

// Intersect returns the sorted intersection of two sorted index sets.
func (I Index) Intersect(J Index) (r Index) {
	var i, j int
	for i < len(I) && j < len(J) {
		switch {
		case I[i] < J[j]:
			i++
		case I[i] > J[j]:
			j++
		default:
			r = append(r, I[i])
			i++
			j++
		}
	}
	return
}

// PrepareRemap builds a dense remap table of size max, where
// remap[global] = local position in I and -1 for entries not in I.
func (I Index) PrepareRemap(max int) (remap Index) {
	remap = make(Index, max)
	for i := range remap {
		remap[i] = -1
	}
	for loc, glob := range I {
		remap[glob] = loc
	}
	return
}
