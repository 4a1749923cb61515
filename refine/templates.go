// Package refine implements local mesh refinement with hanging nodes: a
// flagged subset of cells is split by a fixed per-shape template while the
// remaining cells stay coarse, and the basis transform needed to keep the
// interpolation continuous across the coarse/fine interface is derived from
// the facet substitution records.
package refine

// Splitting templates. Rows are the facets of the reference cell; each entry
// is [child index, child local facet] of a sub-facet covering that parent
// facet. Child k of a quad sits at parent corner k with connectivity
// [v_k, midpoint(k,k+1), center, midpoint(k-1,k)]; hex children follow the
// same corner pattern on the bottom layer, with the top layer mirrored so
// that child face 0 lies on the parent's top face.

var RefineEdges24 = [4][2][2]int{
	{{0, 0}, {1, 3}},
	{{1, 0}, {2, 3}},
	{{2, 0}, {3, 3}},
	{{3, 0}, {0, 3}},
}

var RefineFaces38 = [6][4][2]int{
	{{0, 0}, {1, 0}, {2, 0}, {3, 0}},
	{{0, 1}, {3, 2}, {4, 2}, {7, 1}},
	{{0, 2}, {1, 1}, {4, 1}, {5, 2}},
	{{4, 0}, {5, 0}, {6, 0}, {7, 0}},
	{{1, 2}, {2, 1}, {5, 1}, {6, 2}},
	{{2, 2}, {3, 1}, {6, 1}, {7, 2}},
}

var RefineEdges38 = [8][2][2]int{
	{{0, 0}, {1, 3}},
	{{1, 0}, {2, 3}},
	{{2, 0}, {3, 3}},
	{{3, 0}, {0, 3}},
	{{4, 3}, {5, 0}},
	{{5, 3}, {6, 0}},
	{{6, 3}, {7, 0}},
	{{7, 3}, {4, 0}},
}
