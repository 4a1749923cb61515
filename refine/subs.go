package refine

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
)

// Sub records one facet substitution: the DOFs of one coarse facet are split
// across two fine sub-facets after refinement. Cell ids refer to the refined
// mesh numbering (coarse cells first, then children).
type Sub struct {
	CoarseCell  int
	CoarseFacet int
	FineCellA   int
	FineFacetA  int
	FineCellB   int
	FineFacetB  int
}

// FindFacetSubstitutions links every interface facet to the pair of children
// sub-facets bordering it, using the static refinement template.
func FindFacetSubstitutions(pairs []FacetPair, subCells SubCellMap,
	desc *mesh.ElementDesc) (subs []Sub, err error) {
	if len(pairs) == 0 {
		return
	}
	if desc != mesh.Quad4 {
		err = fmt.Errorf("facet substitutions for element %s are not supported", desc.Name)
		return
	}
	childOf := make(map[int][]int, len(subCells))
	for _, row := range subCells {
		childOf[row[0]] = row[1:]
	}
	for _, pair := range pairs {
		children, ok := childOf[pair.RefinedCell]
		if !ok {
			panic(fmt.Errorf("refined cell %d missing from the sub-cell map", pair.RefinedCell))
		}
		rf := RefineEdges24[pair.LocalInRefined]
		subs = append(subs, Sub{
			CoarseCell:  pair.CoarseIndex,
			CoarseFacet: pair.LocalInCoarse,
			FineCellA:   children[rf[0][0]],
			FineFacetA:  rf[0][1],
			FineCellB:   children[rf[1][0]],
			FineFacetB:  rf[1][1],
		})
	}
	return
}

// ShiftSubs corrects the cell columns of substitutions recorded on an earlier
// mesh before this pass replaced flagged cells with their children: every
// cell index drops by the number of earlier-indexed removed cells, computed
// as a running offset over the refine flag. Skipping this shift silently
// corrupts the indices of chained passes.
func ShiftSubs(prev []Sub, flag []bool) (shifted []Sub) {
	if len(prev) == 0 {
		return nil
	}
	var (
		mods    = make([]int, len(flag))
		removed int
	)
	for i, fl := range flag {
		if fl {
			removed++
		}
		mods[i] = -removed
	}
	shifted = make([]Sub, len(prev))
	for i, s := range prev {
		s.CoarseCell += mods[s.CoarseCell]
		s.FineCellA += mods[s.FineCellA]
		s.FineCellB += mods[s.FineCellB]
		shifted[i] = s
	}
	return
}
