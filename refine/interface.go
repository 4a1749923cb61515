package refine

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// FacetPair records one facet on the boundary between the refined and coarse
// regions, oriented refined-side first.
type FacetPair struct {
	Facet          int // global facet id in the input mesh
	LocalInRefined int // local facet index within the refined-side cell
	LocalInCoarse  int // local facet index within the coarse-side cell
	RefinedCell    int
	CoarseCell     int
	CoarseIndex    int // CoarseCell's position in the coarse-only cell list
}

// FindLevelInterface partitions the mesh by the refine flag and finds the
// facets straddling the coarse/refined boundary. A facet on the boundary must
// have exactly two incident cells; anything else is a corrupted mesh and
// panics.
func FindLevelInterface(m *mesh.Mesh, flag []bool) (pairs []FacetPair, coarse, refined mesh.Region) {
	if len(flag) != m.NCells() {
		panic(fmt.Errorf("refine flag has %d entries for %d cells", len(flag), m.NCells()))
	}
	any := false
	for _, fl := range flag {
		any = any || fl
	}
	if !any {
		return
	}

	coarse = mesh.SelectCells(m, "coarse", func(mm *mesh.Mesh) (I utils.Index) {
		for k, fl := range flag {
			if !fl {
				I = append(I, k)
			}
		}
		return
	})
	refined = mesh.SelectCells(m, "refine", func(mm *mesh.Mesh) (I utils.Index) {
		for k, fl := range flag {
			if fl {
				I = append(I, k)
			}
		}
		return
	})

	var (
		dim    = m.Dim - 1
		ft     = m.Facets(dim)
		facets = coarse.FacetSet(dim).Intersect(refined.FacetSet(dim))
	)
	for _, gf := range facets {
		inc := ft.Cells[gf]
		if len(inc) != 2 {
			panic(fmt.Errorf("interface facet %d has %d incident cells, want 2", gf, len(inc)))
		}
		ref, crs := inc[0], inc[1]
		if !flag[ref.Cell] {
			ref, crs = crs, ref
		}
		if flag[crs.Cell] || !flag[ref.Cell] {
			panic(fmt.Errorf("facet %d does not separate refined and coarse cells", gf))
		}
		pairs = append(pairs, FacetPair{
			Facet:          gf,
			LocalInRefined: ref.LocalFacet,
			LocalInCoarse:  crs.LocalFacet,
			RefinedCell:    ref.Cell,
			CoarseCell:     crs.Cell,
			CoarseIndex:    coarse.Cells.Position(crs.Cell),
		})
	}
	return
}
