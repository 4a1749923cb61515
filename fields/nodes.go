package fields

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// NodeDesc lays out the local DOF slots of a tensor-product Lagrange element
// of one approximation order: one slot per corner vertex, order-1 interior
// slots per edge, (order-1)^2 per face (hex only), and the interior bubble
// block. Slot numbering is vertex tier first, then edges, faces, bubble,
// the same tier order the global DOF numbering uses.
type NodeDesc struct {
	Shape  *mesh.ElementDesc
	Order  int
	NLocal int

	Vertex []int   // slot per local corner
	Edge   [][]int // per local edge, interior slots ordered along the edge
	Face   [][]int // per local face, interior slots row-major in face params
	Bubble []int

	Coors utils.Matrix // NLocal x Dim reference coordinates per slot
}

// NewNodeDesc derives the node layout for (shape, order). Orders start at 1;
// order must be positive.
func NewNodeDesc(shape *mesh.ElementDesc, order int) (nd *NodeDesc, err error) {
	if order < 1 {
		err = fmt.Errorf("approximation order %d is not supported, must be >= 1", order)
		return
	}
	switch shape {
	case mesh.Line2, mesh.Quad4, mesh.Hex8:
	default:
		err = fmt.Errorf("element shape %s is not supported", shape.Name)
		return
	}
	var (
		k      = order
		dim    = shape.Dim
		nLocal = 1
	)
	for d := 0; d < dim; d++ {
		nLocal *= k + 1
	}
	nd = &NodeDesc{
		Shape:  shape,
		Order:  order,
		NLocal: nLocal,
		Coors:  utils.NewMatrix(nLocal, dim),
	}

	slot := 0
	addSlot := func(coords []float64) (s int) {
		s = slot
		nd.Coors.SetRow(s, coords)
		slot++
		return
	}

	// Vertex tier
	nd.Vertex = make([]int, shape.NVerts)
	for v := 0; v < shape.NVerts; v++ {
		nd.Vertex[v] = addSlot(shape.Coors.Row(v).Data())
	}

	// Edge tier
	nd.Edge = make([][]int, len(shape.Edges))
	for e, ev := range shape.Edges {
		nd.Edge[e] = make([]int, k-1)
		a, b := shape.Coors.Row(ev[0]).Data(), shape.Coors.Row(ev[1]).Data()
		for t := 0; t < k-1; t++ {
			w := float64(t+1) / float64(k)
			p := make([]float64, dim)
			for d := 0; d < dim; d++ {
				p[d] = a[d] + (b[d]-a[d])*w
			}
			nd.Edge[e][t] = addSlot(p)
		}
	}

	// Face tier (hex only)
	nd.Face = make([][]int, len(shape.Faces))
	for fc, fv := range shape.Faces {
		nd.Face[fc] = make([]int, (k-1)*(k-1))
		c := make([][]float64, 4)
		for i := 0; i < 4; i++ {
			c[i] = shape.Coors.Row(fv[i]).Data()
		}
		for j := 0; j < k-1; j++ {
			for i := 0; i < k-1; i++ {
				u, v := float64(i+1)/float64(k), float64(j+1)/float64(k)
				p := make([]float64, dim)
				for d := 0; d < dim; d++ {
					p[d] = (1-u)*(1-v)*c[0][d] + u*(1-v)*c[1][d] +
						u*v*c[2][d] + (1-u)*v*c[3][d]
				}
				nd.Face[fc][j*(k-1)+i] = addSlot(p)
			}
		}
	}

	// Bubble tier: interior grid, fastest index along the first dimension.
	nInterior := 1
	for d := 0; d < dim; d++ {
		nInterior *= k - 1
	}
	nd.Bubble = make([]int, 0, nInterior)
	ii := make([]int, dim)
	var rec func(d int)
	rec = func(d int) {
		if d == dim {
			p := make([]float64, dim)
			for m := 0; m < dim; m++ {
				p[m] = float64(ii[m]+1) / float64(k)
			}
			nd.Bubble = append(nd.Bubble, addSlot(p))
			return
		}
		for ii[d] = 0; ii[d] < k-1; ii[d]++ {
			rec(d + 1)
		}
	}
	if k > 1 {
		rec(0)
	}

	if slot != nLocal {
		panic(fmt.Errorf("node layout for %s order %d produced %d slots, want %d",
			shape.Name, order, slot, nLocal))
	}
	nd.Coors.SetReadOnly("NodeDesc.Coors")
	return
}

// HasExtraNodes reports whether any non-vertex tier carries DOFs.
func (nd *NodeDesc) HasExtraNodes() bool { return nd.Order > 1 }

// NVertexSlots etc. give per-tier slot counts of a single cell.
func (nd *NodeDesc) NEdgeSlots() int { return nd.Order - 1 }
func (nd *NodeDesc) NFaceSlots() int { return (nd.Order - 1) * (nd.Order - 1) }
func (nd *NodeDesc) NBubbleSlots() int {
	n := 1
	for d := 0; d < nd.Shape.Dim; d++ {
		n *= nd.Order - 1
	}
	return n
}

// FacetSlots returns, for every codimension-1 local facet, all slots lying on
// the facet including its corners, ordered from the facet's first endpoint:
// for quads [corner a, interior..., corner b] along each edge, for hexes the
// (order+1)^2 grid over the face in face params. This is the row/column slot
// layout the hanging-node basis transform works on.
func (nd *NodeDesc) FacetSlots() (ef [][]int) {
	var (
		k = nd.Order
	)
	switch nd.Shape.Dim {
	case 2:
		ef = make([][]int, len(nd.Shape.Edges))
		for e, ev := range nd.Shape.Edges {
			ef[e] = make([]int, 0, k+1)
			ef[e] = append(ef[e], nd.Vertex[ev[0]])
			ef[e] = append(ef[e], nd.Edge[e]...)
			ef[e] = append(ef[e], nd.Vertex[ev[1]])
		}
	case 3:
		ef = make([][]int, len(nd.Shape.Faces))
		for fc, fv := range nd.Shape.Faces {
			full := make([]int, (k+1)*(k+1))
			// corners
			full[0] = nd.Vertex[fv[0]]
			full[k] = nd.Vertex[fv[1]]
			full[(k+1)*(k+1)-1] = nd.Vertex[fv[2]]
			full[k*(k+1)] = nd.Vertex[fv[3]]
			// face edges in face-param order: v=0, u=1, v=1, u=0
			edgeOf := func(a, b int) (e, dir int) {
				for ei, ev := range nd.Shape.Edges {
					if ev[0] == a && ev[1] == b {
						return ei, 1
					}
					if ev[0] == b && ev[1] == a {
						return ei, -1
					}
				}
				panic(fmt.Errorf("no local edge between corners %d and %d", a, b))
			}
			place := func(a, b int, at func(t int) int) {
				e, dir := edgeOf(a, b)
				for t := 0; t < k-1; t++ {
					tt := t
					if dir < 0 {
						tt = k - 2 - t
					}
					full[at(t)] = nd.Edge[e][tt]
				}
			}
			place(fv[0], fv[1], func(t int) int { return t + 1 })
			place(fv[1], fv[2], func(t int) int { return (t+1)*(k+1) + k })
			place(fv[3], fv[2], func(t int) int { return k*(k+1) + t + 1 })
			place(fv[0], fv[3], func(t int) int { return (t + 1) * (k + 1) })
			// interior
			for j := 0; j < k-1; j++ {
				for i := 0; i < k-1; i++ {
					full[(j+1)*(k+1)+i+1] = nd.Face[fc][j*(k-1)+i]
				}
			}
			ef[fc] = full
		}
	default:
		panic("FacetSlots requires a 2D or 3D shape")
	}
	return
}
