package mesh

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash and an indirect access method
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

func (ek EdgeKey) GetVertices() (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	return
}

/*
FaceKey extends the EdgeKey packing to quad faces: the four vertex indices
are sorted ascending and packed pairwise into two uint64s, forming a
comparable key independent of the face's traversal order within any cell
*/
type FaceKey struct {
	Lo, Hi uint64
}

func NewFaceKey(verts [4]int) (packed FaceKey) {
	var (
		limit = math.MaxUint32
		v     = make([]int, 4)
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack four ints into two uint64, have %v as input", verts))
		}
	}
	copy(v, verts[:])
	sort.Ints(v)
	packed = FaceKey{
		Lo: uint64(v[0]) + uint64(v[1])<<32,
		Hi: uint64(v[2]) + uint64(v[3])<<32,
	}
	return
}
