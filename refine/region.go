package refine

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// SubCellMap rows are [parent cell id, child cell ids...]; child ids are
// numbered past the coarse cell block so the output numbering is disjoint.
type SubCellMap [][]int

// Children returns the child ids of parent, or nil when parent was not
// refined.
func (sc SubCellMap) Children(parent int) []int {
	for _, row := range sc {
		if row[0] == parent {
			return row[1:]
		}
	}
	return nil
}

// RefineRegion builds the refined mesh: the coarse cells first, untouched
// (original vertex ids and coordinates preserved), followed by the children
// of every refined cell, split by the reference cell template. Midpoint and
// face/body center vertices are deduplicated across neighboring refined
// cells.
func RefineRegion(m *mesh.Mesh, coarse, refined mesh.Region) (r *mesh.Mesh, subCells SubCellMap) {
	if refined.NCells() == 0 {
		return m, nil
	}
	var (
		dim    = m.Dim
		nCh    = 1 << dim // 4 quad children, 8 hex children
		coords = append([]float64{}, m.Vertices.Data()...)
		nVerts = m.NVerts()

		edgeMid = make(map[mesh.EdgeKey]int)
		faceMid = make(map[mesh.FaceKey]int)
	)
	addVertex := func(verts ...int) (iv int) {
		iv = nVerts
		nVerts++
		p := make([]float64, dim)
		for _, v := range verts {
			for d := 0; d < dim; d++ {
				p[d] += m.Vertices.At(v, d) / float64(len(verts))
			}
		}
		coords = append(coords, p...)
		return
	}
	midpoint := func(a, b int) (iv int) {
		key := mesh.NewEdgeKey([2]int{a, b})
		iv, ok := edgeMid[key]
		if !ok {
			iv = addVertex(a, b)
			edgeMid[key] = iv
		}
		return
	}
	faceCenter := func(verts [4]int) (iv int) {
		key := mesh.NewFaceKey(verts)
		iv, ok := faceMid[key]
		if !ok {
			iv = addVertex(verts[0], verts[1], verts[2], verts[3])
			faceMid[key] = iv
		}
		return
	}

	var (
		nCoarse = coarse.NCells()
		etov    = make([][]int, 0, nCoarse+nCh*refined.NCells())
		matIDs  = make([]int, 0, nCoarse+nCh*refined.NCells())
	)
	for _, k := range coarse.Cells {
		etov = append(etov, append([]int{}, m.EToV[k]...))
		matIDs = append(matIDs, m.MatIDs[k])
	}

	subCells = make(SubCellMap, refined.NCells())
	for ii, k := range refined.Cells {
		v := m.EToV[k]
		var children [][]int
		switch m.Desc {
		case mesh.Quad4:
			children = splitQuad(v, midpoint, addVertex)
		case mesh.Hex8:
			children = splitHex(v, midpoint, faceCenter, addVertex)
		default:
			panic(fmt.Errorf("no refinement template for element %s", m.Desc.Name))
		}
		subCells[ii] = make([]int, 1+nCh)
		subCells[ii][0] = k
		for j, ch := range children {
			subCells[ii][1+j] = len(etov)
			etov = append(etov, ch)
			matIDs = append(matIDs, m.MatIDs[k])
		}
	}

	r = mesh.NewMesh(utils.NewMatrix(nVerts, dim, coords), etov, matIDs, m.Desc)
	return
}

// splitQuad: child k sits at parent corner k,
// [v_k, midpoint(k,k+1), center, midpoint(k-1,k)].
func splitQuad(v []int, midpoint func(a, b int) int, addVertex func(verts ...int) int) (children [][]int) {
	var mids [4]int
	for e := 0; e < 4; e++ {
		mids[e] = midpoint(v[e], v[(e+1)%4])
	}
	c := addVertex(v[0], v[1], v[2], v[3])
	children = make([][]int, 4)
	for k := 0; k < 4; k++ {
		children[k] = []int{v[k], mids[k], c, mids[(k+3)%4]}
	}
	return
}

// splitHex: bottom children follow the quad corner pattern; top children are
// mirrored so that their local face 0 lies on the parent top face, matching
// the hex refinement templates.
func splitHex(v []int, midpoint func(a, b int) int, faceCenter func(verts [4]int) int,
	addVertex func(verts ...int) int) (children [][]int) {
	var (
		mb, mt, mv [4]int // bottom, top and vertical edge midpoints
		fs         [4]int // side face centers, fs[k] between corners k and k+1
	)
	for k := 0; k < 4; k++ {
		mb[k] = midpoint(v[k], v[(k+1)%4])
		mt[k] = midpoint(v[4+k], v[4+(k+1)%4])
		mv[k] = midpoint(v[k], v[4+k])
		fs[k] = faceCenter([4]int{v[k], v[(k+1)%4], v[4+(k+1)%4], v[4+k]})
	}
	cb := faceCenter([4]int{v[0], v[1], v[2], v[3]})
	ct := faceCenter([4]int{v[4], v[5], v[6], v[7]})
	cc := addVertex(v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7])

	children = make([][]int, 8)
	for k := 0; k < 4; k++ {
		prev := (k + 3) % 4
		children[k] = []int{
			v[k], mb[k], cb, mb[prev],
			mv[k], fs[k], cc, fs[prev],
		}
		children[4+k] = []int{
			v[4+k], mt[prev], ct, mt[k],
			mv[k], fs[prev], cc, fs[k],
		}
	}
	return
}
