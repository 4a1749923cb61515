package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gofea/utils"
)

// IncidentCell identifies one cell incident to a facet and the facet's local
// index within that cell.
type IncidentCell struct {
	Cell, LocalFacet int
}

// FacetTopology is the derived connectivity between cells and their facets of
// one dimension: global facet numbering, per (cell, local facet) facet ids and
// orientation codes, canonical vertex tuples, and facet to cell incidence.
//
// Orientation codes enumerate how a facet's cell-local vertex ordering aligns
// with its canonical ordering. Edges: 0 = ascending (canonical), 1 = reversed.
// Faces: s + 4*0 for a forward cycle starting at local position s of the
// canonical first vertex, s + 4 for the reversed cycle. Code 0 always means
// the local ordering equals the canonical one.
type FacetTopology struct {
	Dim          int
	NFacets      int
	CellFacets   [][]int // cell x local facet -> global facet id
	Orientations [][]int // cell x local facet -> orientation code
	FacetVerts   [][]int // facet -> canonical vertex tuple
	Cells        [][]IncidentCell
}

func buildFacetTopology(m *Mesh, dim int) (ft *FacetTopology) {
	var (
		nCell  = m.NCells()
		nf     = m.Desc.NFacets(dim)
		edgeID = make(map[EdgeKey]int)
		faceID = make(map[FaceKey]int)
	)
	ft = &FacetTopology{
		Dim:          dim,
		CellFacets:   make([][]int, nCell),
		Orientations: make([][]int, nCell),
	}
	for k := 0; k < nCell; k++ {
		ft.CellFacets[k] = make([]int, nf)
		ft.Orientations[k] = make([]int, nf)
		for lf := 0; lf < nf; lf++ {
			local := m.Desc.FacetVerts(dim, lf)
			gverts := make([]int, len(local))
			for i, lv := range local {
				gverts[i] = m.EToV[k][lv]
			}
			var gf int
			if dim == 1 {
				key := NewEdgeKey([2]int{gverts[0], gverts[1]})
				id, ok := edgeID[key]
				if !ok {
					id = len(ft.FacetVerts)
					edgeID[key] = id
					canon := [2]int{gverts[0], gverts[1]}
					if canon[0] > canon[1] {
						canon[0], canon[1] = canon[1], canon[0]
					}
					ft.FacetVerts = append(ft.FacetVerts, []int{canon[0], canon[1]})
					ft.Cells = append(ft.Cells, nil)
				}
				gf = id
			} else {
				key := NewFaceKey([4]int{gverts[0], gverts[1], gverts[2], gverts[3]})
				id, ok := faceID[key]
				if !ok {
					id = len(ft.FacetVerts)
					faceID[key] = id
					ft.FacetVerts = append(ft.FacetVerts, canonicalFaceCycle(gverts))
					ft.Cells = append(ft.Cells, nil)
				}
				gf = id
			}
			ft.CellFacets[k][lf] = gf
			ft.Orientations[k][lf] = orientationCode(gverts, ft.FacetVerts[gf])
			ft.Cells[gf] = append(ft.Cells[gf], IncidentCell{Cell: k, LocalFacet: lf})
		}
	}
	ft.NFacets = len(ft.FacetVerts)
	return
}

// canonicalFaceCycle rotates/reflects a cyclic quad vertex tuple into its
// canonical form: start at the minimum vertex, traverse toward the smaller
// neighbor.
func canonicalFaceCycle(gverts []int) (canon []int) {
	s := 0
	for i, v := range gverts {
		if v < gverts[s] {
			s = i
		}
	}
	next, prev := gverts[(s+1)%4], gverts[(s+3)%4]
	canon = make([]int, 4)
	if next < prev {
		for i := 0; i < 4; i++ {
			canon[i] = gverts[(s+i)%4]
		}
	} else {
		for i := 0; i < 4; i++ {
			canon[i] = gverts[(s+4-i)%4]
		}
	}
	return
}

func orientationCode(gverts, canon []int) (ori int) {
	if len(gverts) == 2 {
		if gverts[0] < gverts[1] {
			return 0
		}
		return 1
	}
	s := -1
	for i, v := range gverts {
		if v == canon[0] {
			s = i
			break
		}
	}
	if s < 0 {
		panic(fmt.Errorf("facet %v does not contain canonical vertex %d", gverts, canon[0]))
	}
	switch {
	case gverts[(s+1)%4] == canon[1]:
		ori = s
	case gverts[(s+3)%4] == canon[1]:
		ori = s + 4
	default:
		panic(fmt.Errorf("facet %v is not a cyclic permutation of %v", gverts, canon))
	}
	return
}

// Region is an ordered set of cells, a read-only view into the mesh.
type Region struct {
	Name  string
	Cells utils.Index
	mesh  *Mesh
}

// CellPredicate selects cells of a mesh; it must be a pure function.
type CellPredicate func(m *Mesh) utils.Index

// SelectCells evaluates the predicate and returns the region with its cell
// set sorted ascending.
func SelectCells(m *Mesh, name string, pred CellPredicate) (r Region) {
	cells := pred(m).Copy()
	sort.Ints(cells)
	r = Region{Name: name, Cells: cells, mesh: m}
	return
}

func (r Region) Mesh() *Mesh { return r.mesh }

func (r Region) NCells() int { return len(r.Cells) }

// VertexSet returns the sorted vertices touched by the region's cells.
func (r Region) VertexSet() (verts utils.Index) {
	seen := make(map[int]bool)
	for _, k := range r.Cells {
		for _, v := range r.mesh.EToV[k] {
			if !seen[v] {
				seen[v] = true
				verts = append(verts, v)
			}
		}
	}
	sort.Ints(verts)
	return
}

// FacetSet returns the sorted facet ids of dimension dim touched by the
// region's cells.
func (r Region) FacetSet(dim int) (facets utils.Index) {
	var (
		ft   = r.mesh.Facets(dim)
		seen = make(map[int]bool)
	)
	for _, k := range r.Cells {
		for _, gf := range ft.CellFacets[k] {
			if !seen[gf] {
				seen[gf] = true
				facets = append(facets, gf)
			}
		}
	}
	sort.Ints(facets)
	return
}

// AllCells selects every cell.
func AllCells(m *Mesh) utils.Index {
	return utils.NewRange(0, m.NCells()-1)
}

func (m *Mesh) cellCentroid(k int) (c []float64) {
	c = make([]float64, m.Dim)
	for _, v := range m.EToV[k] {
		for d := 0; d < m.Dim; d++ {
			c[d] += m.Vertices.At(v, d) / float64(len(m.EToV[k]))
		}
	}
	return
}

// CenterCell selects the cell whose centroid lies closest to the centroid of
// the vertex bounding box.
func CenterCell(m *Mesh) utils.Index {
	mid := make([]float64, m.Dim)
	for d := 0; d < m.Dim; d++ {
		lo, hi := m.Vertices.Col(d).Min(), m.Vertices.Col(d).Max()
		mid[d] = 0.5 * (lo + hi)
	}
	best, bestDist := 0, math.MaxFloat64
	for k := 0; k < m.NCells(); k++ {
		c := m.cellCentroid(k)
		var dist float64
		for d := 0; d < m.Dim; d++ {
			dist += (c[d] - mid[d]) * (c[d] - mid[d])
		}
		if dist < bestDist {
			best, bestDist = k, dist
		}
	}
	return utils.Index{best}
}

// LowerHalfCells selects the cells whose centroid lies below the domain
// midpoint along the first coordinate.
func LowerHalfCells(m *Mesh) (I utils.Index) {
	var (
		lo, hi = m.Vertices.Col(0).Min(), m.Vertices.Col(0).Max()
		mid    = 0.5 * (lo + hi)
	)
	for k := 0; k < m.NCells(); k++ {
		if m.cellCentroid(k)[0] < mid {
			I = append(I, k)
		}
	}
	return
}
