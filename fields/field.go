package fields

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// Field owns the element connectivity matrix of one scalar FE field over a
// region: Econn[ic][slot] is the global DOF index of local slot `slot` in the
// ic-th region cell. Global DOF numbering is tiered: vertex DOFs first, then
// edge, face and bubble blocks, each contiguous and disjoint.
type Field struct {
	Mesh   *mesh.Mesh
	Region mesh.Region
	Order  int
	ND     *NodeDesc

	Econn [][]int

	NVertexDOF int
	NEdgeDOF   int
	NFaceDOF   int
	NBubbleDOF int
	NDOF       int

	// Remaps kept for reuse by callers: global entity id -> field-local id,
	// -1 for entities outside the region.
	VertexRemap utils.Index
	EdgeRemap   utils.Index
	FaceRemap   utils.Index
	CellRemap   utils.Index
}

// NewField builds the DOF connectivity by running the tiers in fixed order:
// vertex, edge, face, bubble. Later tiers' offsets depend on earlier tiers'
// counts.
func NewField(m *mesh.Mesh, region mesh.Region, order int) (f *Field, err error) {
	nd, err := NewNodeDesc(m.Desc, order)
	if err != nil {
		return
	}
	if m.Desc.Dim < 2 {
		err = fmt.Errorf("fields need a 2D or 3D volume mesh, have %s", m.Desc.Name)
		return
	}
	f = &Field{
		Mesh:      m,
		Region:    region,
		Order:     order,
		ND:        nd,
		CellRemap: region.Cells.PrepareRemap(m.NCells()),
	}
	f.Econn = make([][]int, region.NCells())
	for ic := range f.Econn {
		f.Econn[ic] = make([]int, nd.NLocal)
		for s := range f.Econn[ic] {
			f.Econn[ic][s] = -1
		}
	}

	f.NVertexDOF = f.assignVertexDOFs()
	offset := f.NVertexDOF

	if nd.NEdgeSlots() > 0 {
		edgePerms := PermutationsFor(2, order)
		f.NEdgeDOF, f.EdgeRemap = f.assignFacetDOFs(1, nd.Edge, edgePerms, offset)
		offset += f.NEdgeDOF
	}

	if m.Desc.Dim == 3 && nd.NFaceSlots() > 0 {
		facePerms := PermutationsFor(4, order)
		f.NFaceDOF, f.FaceRemap = f.assignFacetDOFs(2, nd.Face, facePerms, offset)
		offset += f.NFaceDOF
	}

	f.NBubbleDOF = f.assignBubbleDOFs(offset)
	f.NDOF = offset + f.NBubbleDOF

	for ic := range f.Econn {
		for s, dof := range f.Econn[ic] {
			if dof < 0 || dof >= f.NDOF {
				panic(fmt.Errorf("connectivity slot (%d,%d) holds DOF %d outside [0,%d)",
					ic, s, dof, f.NDOF))
			}
		}
	}
	return
}

// assignVertexDOFs gives every region vertex one DOF at offset 0, a trivial
// bijection through the vertex remap.
func (f *Field) assignVertexDOFs() (nDOF int) {
	var (
		verts = f.Region.VertexSet()
	)
	f.VertexRemap = verts.PrepareRemap(f.Mesh.NVerts())
	for ic, k := range f.Region.Cells {
		for lv, slot := range f.ND.Vertex {
			f.Econn[ic][slot] = f.VertexRemap[f.Mesh.EToV[k][lv]]
		}
	}
	nDOF = len(verts)
	return
}

// assignFacetDOFs numbers the interior DOFs of every region facet of the
// given dimension and writes them into each incident cell's facet slots,
// permuted by the facet's orientation in that cell. Both cells incident to a
// shared facet derive the same global DOF for the same physical node; only
// the slot ordering differs.
func (f *Field) assignFacetDOFs(dim int, layout [][]int, perms [][]int, offset int) (nDOF int, remap utils.Index) {
	var (
		ft        = f.Mesh.Facets(dim)
		facets    = f.Region.FacetSet(dim)
		nPerFacet = len(layout[0])
	)
	remap = facets.PrepareRemap(ft.NFacets)
	for ic, k := range f.Region.Cells {
		for lf, slots := range layout {
			gf := ft.CellFacets[k][lf]
			fl := remap[gf]
			if fl < 0 {
				panic(fmt.Errorf("cell %d facet %d (dim %d) lies outside the region facet set", k, gf, dim))
			}
			perm := perms[ft.Orientations[k][lf]]
			for t := 0; t < nPerFacet; t++ {
				f.Econn[ic][slots[t]] = offset + fl*nPerFacet + perm[t]
			}
		}
	}
	nDOF = nPerFacet * len(facets)
	return
}

// assignBubbleDOFs appends the interior DOF block of every region cell.
// Bubble DOFs are never shared, so there is no orientation ambiguity.
func (f *Field) assignBubbleDOFs(offset int) (nDOF int) {
	var (
		nPerCell = f.ND.NBubbleSlots()
	)
	for ic := range f.Region.Cells {
		for t, slot := range f.ND.Bubble {
			f.Econn[ic][slot] = offset + ic*nPerCell + t
		}
	}
	nDOF = nPerCell * f.Region.NCells()
	return
}

// Coords returns the physical coordinates of every global DOF, NDOF x Dim.
// Shared DOFs are written once per incident cell; the shared-facet invariant
// makes the writes agree.
func (f *Field) Coords() (R utils.Matrix) {
	var (
		dim = f.Mesh.Dim
	)
	R = utils.NewMatrix(f.NDOF, dim)
	for ic, k := range f.Region.Cells {
		g := NewGeoMap(f.Mesh.Desc, f.Mesh.CellVertexCoords(k))
		for s := 0; s < f.ND.NLocal; s++ {
			x := g.Apply(f.ND.Coors.Row(s).Data())
			R.SetRow(f.Econn[ic][s], x)
		}
	}
	return
}

// FacetSlots exposes the node descriptor's per-facet slot layout.
func (f *Field) FacetSlots() [][]int { return f.ND.FacetSlots() }
