package fields

import "fmt"

// PermutationsFor builds the facet DOF permutation table for facets with
// nFacetVerts corner vertices at the given approximation order: one
// permutation of the facet-interior DOF slots per orientation code.
// Orientation 0 is always the identity, every entry is a bijection, and the
// table depends on (nFacetVerts, order) only.
func PermutationsFor(nFacetVerts, order int) (perms [][]int) {
	switch nFacetVerts {
	case 2:
		perms = edgePermutations(order)
	case 4:
		perms = facePermutations(order)
	default:
		panic(fmt.Errorf("no permutation table for facets with %d vertices", nFacetVerts))
	}
	return
}

// edgePermutations: order-1 interior nodes along the edge; orientation 0
// keeps them, orientation 1 reverses them.
func edgePermutations(order int) (perms [][]int) {
	var (
		n = order - 1
	)
	perms = make([][]int, 2)
	perms[0] = make([]int, n)
	perms[1] = make([]int, n)
	for t := 0; t < n; t++ {
		perms[0][t] = t
		perms[1][t] = n - 1 - t
	}
	return
}

// facePermutations: the (order-1)^2 interior grid under the 8 dihedral
// orientations of a quad face. Orientation code s (0..3) rotates the cycle
// start to local position s; code s+4 additionally reverses the traversal.
// perm[ori][localSlot] yields the canonical slot holding the same physical
// node.
func facePermutations(order int) (perms [][]int) {
	var (
		k = order
		n = k - 1
	)
	perms = make([][]int, 8)
	for ori := 0; ori < 8; ori++ {
		perms[ori] = make([]int, n*n)
		s, rev := ori%4, ori >= 4
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				u := float64(i+1) / float64(k)
				v := float64(j+1) / float64(k)
				var uc, vc float64
				switch s {
				case 0:
					uc, vc = u, v
				case 1:
					uc, vc = v, 1-u
				case 2:
					uc, vc = 1-u, 1-v
				case 3:
					uc, vc = 1-v, u
				}
				if rev {
					uc, vc = vc, uc
				}
				ic := int(uc*float64(k)+0.5) - 1
				jc := int(vc*float64(k)+0.5) - 1
				perms[ori][j*n+i] = jc*n + ic
			}
		}
	}
	return
}
