package refine

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/fields"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// rowSumTol bounds the allowed deviation of transform row sums from 1.
const rowSumTol = 1.e-15

// EvalBasisTransform derives, for a field of the given order over nCells
// cells, the per-cell linear map from unconstrained to continuity-constrained
// basis coefficients. Cells untouched by any substitution keep the identity;
// for each substitution the rows of the two fine cells' hanging-facet slots
// are replaced by the coarse cell basis evaluated at the fine facet node
// locations. Every row of every matrix sums to 1 (partition of unity), which
// is checked before returning.
func EvalBasisTransform(desc *mesh.ElementDesc, order int, subs []Sub, nCells int) (T []utils.Matrix, err error) {
	nd, err := fields.NewNodeDesc(desc, order)
	if err != nil {
		return
	}
	T = make([]utils.Matrix, nCells)
	for k := range T {
		T[k] = utils.NewIdentityMatrix(nd.NLocal)
	}
	if len(subs) == 0 {
		return
	}
	if desc != mesh.Quad4 {
		T = nil
		err = fmt.Errorf("hanging-node basis transform for element %s is not supported", desc.Name)
		return
	}

	cfield, ffield, err := referenceFields(order)
	if err != nil {
		return
	}
	var (
		cnd = cfield.ND
		ef  = cnd.FacetSlots()
		nf  = order + 1
	)

	// Coarse basis at the fine facet node locations of the reference split:
	// child 0 facet 0 first, then child 1 facet 3, per the quad template.
	// The reference cell is the unit quad, so physical and reference
	// coordinates coincide there.
	fcoors := ffield.Coords()
	bf := utils.NewMatrix(2*nf, nf)
	evalRow := func(row, fineCell, fineFacet, i int) {
		slot := ef[fineFacet][i]
		pt := fcoors.Row(ffield.Econn[fineCell][slot]).Data()
		phi := cnd.BasisAt(pt)
		for j := 0; j < nf; j++ {
			bf.Set(row, j, phi.AtVec(ef[0][j]))
		}
	}
	for i := 0; i < nf; i++ {
		evalRow(i, 0, 0, i)
		evalRow(nf+i, 1, 3, i)
	}

	for _, sub := range subs {
		applyBlock(T[sub.FineCellA], ef[sub.FineFacetA], bf, 0)
		applyBlock(T[sub.FineCellB], ef[sub.FineFacetB], bf, nf)
	}

	for k := range T {
		for i := 0; i < nd.NLocal; i++ {
			if math.Abs(T[k].RowSum(i)-1.0) > rowSumTol {
				panic(fmt.Errorf("basis transform row (%d,%d) sums to %v, want 1",
					k, i, T[k].RowSum(i)))
			}
		}
	}
	return
}

// applyBlock overwrites the rows of the hanging-facet slots with the coarse
// basis values over the same slot columns. The identity diagonal of those
// rows lies inside the block, so it is replaced along with the rest.
func applyBlock(mtx utils.Matrix, slots []int, bf utils.Matrix, rowOff int) {
	for i, ri := range slots {
		for j, cj := range slots {
			mtx.Set(ri, cj, bf.At(rowOff+i, j))
		}
	}
}

// referenceFields builds a field on one coarse unit quad and on its uniform
// refinement, sharing the approximation order.
func referenceFields(order int) (cfield, ffield *fields.Field, err error) {
	var (
		desc = mesh.Quad4
	)
	cmesh := mesh.NewMesh(desc.Coors.Copy(), [][]int{{0, 1, 2, 3}}, nil, desc)
	comega := mesh.SelectCells(cmesh, "Omega", mesh.AllCells)
	cfield, err = fields.NewField(cmesh, comega, order)
	if err != nil {
		return
	}

	_, coarse, refined := FindLevelInterface(cmesh, []bool{true})
	fmesh, _ := RefineRegion(cmesh, coarse, refined)
	fomega := mesh.SelectCells(fmesh, "Omega", mesh.AllCells)
	ffield, err = fields.NewField(fmesh, fomega, order)
	return
}

// TransformsToCSR assembles the per-cell transforms into one block-diagonal
// sparse operator over the stacked per-cell coefficient vectors, for use by
// downstream assembly.
func TransformsToCSR(T []utils.Matrix) (R utils.CSR) {
	if len(T) == 0 {
		return utils.NewDOK(0, 0).ToCSR()
	}
	var (
		nLocal, _ = T[0].Dims()
		n         = len(T) * nLocal
		dok       = utils.NewDOK(n, n)
	)
	for k, mtx := range T {
		off := k * nLocal
		for i := 0; i < nLocal; i++ {
			for j := 0; j < nLocal; j++ {
				if val := mtx.At(i, j); val != 0 {
					dok.Set(off+i, off+j, val)
				}
			}
		}
	}
	R = dok.ToCSR()
	return
}
