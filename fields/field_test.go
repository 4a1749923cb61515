package fields

import (
	"fmt"
	"testing"

	"github.com/notargets/gofea/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeDesc(t *testing.T) {
	{ // Quad, order 3: 4 vertex + 4*2 edge + 4 bubble = 16 slots
		nd, err := NewNodeDesc(mesh.Quad4, 3)
		require.NoError(t, err)
		assert.Equal(t, 16, nd.NLocal)
		assert.Equal(t, 4, len(nd.Vertex))
		assert.Equal(t, 2, nd.NEdgeSlots())
		assert.Equal(t, 4, nd.NBubbleSlots())
		assert.True(t, nd.HasExtraNodes())
	}
	{ // Hex, order 2: 8 vertex + 12 edge + 6 face + 1 bubble = 27 slots
		nd, err := NewNodeDesc(mesh.Hex8, 2)
		require.NoError(t, err)
		assert.Equal(t, 27, nd.NLocal)
		assert.Equal(t, 12, len(nd.Edge))
		assert.Equal(t, 6, len(nd.Face))
		assert.Equal(t, 1, nd.NFaceSlots())
		assert.Equal(t, 1, nd.NBubbleSlots())
	}
	{ // Order 1 has no extra tiers
		nd, err := NewNodeDesc(mesh.Quad4, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, nd.NLocal)
		assert.False(t, nd.HasExtraNodes())
	}
	{ // Invalid orders are rejected
		_, err := NewNodeDesc(mesh.Quad4, 0)
		assert.Error(t, err)
		_, err = NewNodeDesc(mesh.Quad4, -1)
		assert.Error(t, err)
	}
}

func TestFacetSlotLayout(t *testing.T) {
	nd, err := NewNodeDesc(mesh.Quad4, 2)
	require.NoError(t, err)
	fs := nd.FacetSlots()
	require.Equal(t, 4, len(fs))
	// Each edge lists [corner a, interior, corner b] from the edge's first
	// endpoint.
	for e, ev := range mesh.Quad4.Edges {
		assert.Equal(t, []int{nd.Vertex[ev[0]], nd.Edge[e][0], nd.Vertex[ev[1]]}, fs[e])
	}

	nd3, err := NewNodeDesc(mesh.Hex8, 2)
	require.NoError(t, err)
	fs3 := nd3.FacetSlots()
	require.Equal(t, 6, len(fs3))
	for fc, fv := range mesh.Hex8.Faces {
		full := fs3[fc]
		require.Equal(t, 9, len(full))
		// corners sit at the grid corners, face interior at the center
		assert.Equal(t, nd3.Vertex[fv[0]], full[0])
		assert.Equal(t, nd3.Vertex[fv[1]], full[2])
		assert.Equal(t, nd3.Vertex[fv[2]], full[8])
		assert.Equal(t, nd3.Vertex[fv[3]], full[6])
		assert.Equal(t, nd3.Face[fc][0], full[4])
		// every slot on the facet is distinct
		seen := make(map[int]bool)
		for _, s := range full {
			assert.False(t, seen[s])
			seen[s] = true
		}
	}
}

func TestFacetPermutations(t *testing.T) {
	for order := 2; order <= 4; order++ {
		n := order - 1
		perms := PermutationsFor(2, order)
		require.Equal(t, 2, len(perms))
		assert.Equal(t, identity(n), perms[0])
		// reversal is an involution
		assert.Equal(t, identity(n), compose(perms[1], perms[1]))

		fperms := PermutationsFor(4, order)
		require.Equal(t, 8, len(fperms))
		assert.Equal(t, identity(n*n), fperms[0])
		for code, p := range fperms {
			require.Equal(t, n*n, len(p), "code %d", code)
			seen := make([]bool, n*n)
			for _, v := range p {
				require.False(t, seen[v], "code %d repeats target %d", code, v)
				seen[v] = true
			}
		}
		// the half-turn rotation (code 2) is an involution
		assert.Equal(t, identity(n*n), compose(fperms[2], fperms[2]))
	}
}

func identity(n int) (p []int) {
	p = make([]int, n)
	for i := range p {
		p[i] = i
	}
	return
}

func compose(a, b []int) (p []int) {
	p = make([]int, len(a))
	for i := range a {
		p[i] = a[b[i]]
	}
	return
}

// TestSharedFacetDOFs checks the core connectivity invariant: both cells
// incident to a shared facet assign the same global DOF to the same physical
// node, whatever the facet's orientation in each cell.
func TestSharedFacetDOFs(t *testing.T) {
	meshes := []*mesh.Mesh{
		mesh.NewUniformQuadMesh(2, 2, 0, 1, 0, 1),
		mesh.NewUniformHexMesh(2, 2, 2, 0, 1, 0, 1, 0, 1),
	}
	for _, m := range meshes {
		for order := 1; order <= 3; order++ {
			f, err := NewField(m, mesh.SelectCells(m, "all", mesh.AllCells), order)
			require.NoError(t, err)

			seen := make(map[string]int)
			for ic, k := range f.Region.Cells {
				g := NewGeoMap(m.Desc, m.CellVertexCoords(k))
				for s := 0; s < f.ND.NLocal; s++ {
					x := g.Apply(f.ND.Coors.Row(s).Data())
					key := ""
					for _, c := range x {
						key += fmt.Sprintf("%.9f,", c)
					}
					if dof, ok := seen[key]; ok {
						assert.Equal(t, dof, f.Econn[ic][s],
							"%s order %d: node %s has two DOFs", m.Desc.Name, order, key)
					} else {
						seen[key] = f.Econn[ic][s]
					}
				}
			}
			// every DOF index appears, the numbering is gapless
			assert.Equal(t, f.NDOF, len(seen))
		}
	}
}

func TestTierCounts(t *testing.T) {
	{ // 3x3 quads, order 3: 16 vertices, 24 edges, 9 cells
		m := mesh.NewUniformQuadMesh(3, 3, 0, 1, 0, 1)
		f, err := NewField(m, mesh.SelectCells(m, "all", mesh.AllCells), 3)
		require.NoError(t, err)
		assert.Equal(t, 16, f.NVertexDOF)
		assert.Equal(t, 24*2, f.NEdgeDOF)
		assert.Equal(t, 0, f.NFaceDOF)
		assert.Equal(t, 9*4, f.NBubbleDOF)
		assert.Equal(t, 16+48+36, f.NDOF)
	}
	{ // 2x2x2 hexes, order 2: 27 vertices, 54 edges, 36 faces, 8 cells,
		// NDOF = 5^3 tensor grid
		m := mesh.NewUniformHexMesh(2, 2, 2, 0, 1, 0, 1, 0, 1)
		f, err := NewField(m, mesh.SelectCells(m, "all", mesh.AllCells), 2)
		require.NoError(t, err)
		assert.Equal(t, 27, f.NVertexDOF)
		assert.Equal(t, 54, f.NEdgeDOF)
		assert.Equal(t, 36, f.NFaceDOF)
		assert.Equal(t, 8, f.NBubbleDOF)
		assert.Equal(t, 125, f.NDOF)
	}
}

// TestFieldCoords checks that the DOF coordinates are single-valued and that
// a linear function of them is reproduced exactly by the nodal basis.
func TestFieldCoords(t *testing.T) {
	m := mesh.NewUniformQuadMesh(2, 2, 0, 1, 0, 1)
	f, err := NewField(m, mesh.SelectCells(m, "all", mesh.AllCells), 2)
	require.NoError(t, err)

	coords := f.Coords()
	r, c := coords.Dims()
	assert.Equal(t, f.NDOF, r)
	assert.Equal(t, 2, c)

	// u(x,y) = 3x - y at the DOF nodes, interpolated back at cell centers
	dofVals := make([]float64, f.NDOF)
	for i := 0; i < f.NDOF; i++ {
		dofVals[i] = 3*coords.At(i, 0) - coords.At(i, 1)
	}
	for ic, k := range f.Region.Cells {
		g := NewGeoMap(m.Desc, m.CellVertexCoords(k))
		x := g.Apply([]float64{0.5, 0.5})
		phi := f.ND.BasisAt([]float64{0.5, 0.5})
		var val float64
		for s := 0; s < f.ND.NLocal; s++ {
			val += phi.AtVec(s) * dofVals[f.Econn[ic][s]]
		}
		assert.InDelta(t, 3*x[0]-x[1], val, 1.e-12, "cell %d", ic)
	}
}
