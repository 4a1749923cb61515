package refine

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// Result is the output of one refinement pass.
type Result struct {
	Mesh     *mesh.Mesh
	Subs     []Sub
	SubCells SubCellMap
	Pairs    []FacetPair
}

// Refine runs the refinement pipeline over the mesh: find the coarse/refined
// interface, split the flagged cells, link the interface facets to their
// children, and merge with substitutions accumulated from earlier passes
// (shifted into the new cell numbering). The five stages run strictly in
// sequence; each consumes the full output of the previous one.
func Refine(m *mesh.Mesh, flag []bool, prevSubs []Sub) (res Result, err error) {
	pairs, coarse, refined := FindLevelInterface(m, flag)
	if refined.NCells() == 0 {
		res = Result{Mesh: m, Subs: prevSubs}
		return
	}

	rmesh, subCells := RefineRegion(m, coarse, refined)

	// The unrefined region must survive the rebuild untouched: the coarse
	// side of every interface keeps its original connectivity at its
	// position in the new numbering.
	for _, pair := range pairs {
		conn0 := m.EToV[pair.CoarseCell]
		conn1 := rmesh.EToV[pair.CoarseIndex]
		for i := range conn0 {
			if conn0[i] != conn1[i] {
				panic(fmt.Errorf("coarse cell %d was altered by refinement", pair.CoarseCell))
			}
		}
	}

	subs, err := FindFacetSubstitutions(pairs, subCells, m.Desc)
	if err != nil {
		return
	}
	res = Result{
		Mesh:     rmesh,
		Subs:     append(ShiftSubs(prevSubs, flag), subs...),
		SubCells: subCells,
		Pairs:    pairs,
	}
	return
}

// BasisTransform computes the hanging-node basis transform of this pass's
// mesh for a field of the given approximation order.
func (r Result) BasisTransform(order int) (T []utils.Matrix, err error) {
	return EvalBasisTransform(r.Mesh.Desc, order, r.Subs, r.Mesh.NCells())
}
