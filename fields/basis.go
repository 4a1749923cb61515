package fields

import (
	"fmt"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// lagrange1D evaluates the 1D Lagrange polynomial anchored at node j/k of the
// uniform node set {0, 1/k, ..., 1} at x.
func lagrange1D(k, j int, x float64) (l float64) {
	var (
		xj = float64(j) / float64(k)
	)
	l = 1
	for m := 0; m <= k; m++ {
		if m == j {
			continue
		}
		xm := float64(m) / float64(k)
		l *= (x - xm) / (xj - xm)
	}
	return
}

// lagrange1DGrad evaluates the derivative of lagrange1D at x.
func lagrange1DGrad(k, j int, x float64) (dl float64) {
	var (
		xj = float64(j) / float64(k)
	)
	for n := 0; n <= k; n++ {
		if n == j {
			continue
		}
		xn := float64(n) / float64(k)
		term := 1. / (xj - xn)
		for m := 0; m <= k; m++ {
			if m == j || m == n {
				continue
			}
			xm := float64(m) / float64(k)
			term *= (x - xm) / (xj - xm)
		}
		dl += term
	}
	return
}

// nodeIndex maps a slot's reference coordinate (a multiple of 1/k) back to
// its 1D grid index.
func nodeIndex(k int, x float64) int {
	return int(x*float64(k) + 0.5)
}

// BasisAt evaluates all local basis functions at the reference point.
// The basis is nodal: function s equals 1 at slot s's node and 0 at every
// other node.
func (nd *NodeDesc) BasisAt(ref []float64) (phi utils.Vector) {
	var (
		k   = nd.Order
		dim = nd.Shape.Dim
	)
	if len(ref) != dim {
		panic(fmt.Errorf("reference point dimension %d, want %d", len(ref), dim))
	}
	phi = utils.NewVector(nd.NLocal)
	for s := 0; s < nd.NLocal; s++ {
		val := 1.
		for d := 0; d < dim; d++ {
			j := nodeIndex(k, nd.Coors.At(s, d))
			val *= lagrange1D(k, j, ref[d])
		}
		phi.Set(s, val)
	}
	return
}

// BasisGradAt evaluates the reference-space gradient of every local basis
// function at the reference point, NLocal x Dim.
func (nd *NodeDesc) BasisGradAt(ref []float64) (dphi utils.Matrix) {
	var (
		k   = nd.Order
		dim = nd.Shape.Dim
	)
	dphi = utils.NewMatrix(nd.NLocal, dim)
	for s := 0; s < nd.NLocal; s++ {
		for g := 0; g < dim; g++ {
			val := 1.
			for d := 0; d < dim; d++ {
				j := nodeIndex(k, nd.Coors.At(s, d))
				if d == g {
					val *= lagrange1DGrad(k, j, ref[d])
				} else {
					val *= lagrange1D(k, j, ref[d])
				}
			}
			dphi.Set(s, g, val)
		}
	}
	return
}

// GeoMap is the multilinear geometric mapping of one cell, built from its
// vertex coordinates and the order-1 node layout of the same shape.
type GeoMap struct {
	desc  *mesh.ElementDesc
	verts utils.Matrix // NVerts x Dim physical corner coordinates
	geoND *NodeDesc
}

func NewGeoMap(desc *mesh.ElementDesc, verts utils.Matrix) (g *GeoMap) {
	geoND, err := NewNodeDesc(desc, 1)
	if err != nil {
		panic(err)
	}
	g = &GeoMap{desc: desc, verts: verts, geoND: geoND}
	return
}

// Apply maps a reference point to physical coordinates.
func (g *GeoMap) Apply(ref []float64) (x []float64) {
	var (
		dim = g.desc.Dim
		phi = g.geoND.BasisAt(ref)
	)
	x = make([]float64, dim)
	for v := 0; v < g.desc.NVerts; v++ {
		w := phi.AtVec(v)
		for d := 0; d < dim; d++ {
			x[d] += w * g.verts.At(v, d)
		}
	}
	return
}

// Jacobian returns dX/dRef at the reference point, Dim x Dim.
func (g *GeoMap) Jacobian(ref []float64) (J utils.Matrix) {
	var (
		dim  = g.desc.Dim
		dphi = g.geoND.BasisGradAt(ref)
	)
	J = utils.NewMatrix(dim, dim)
	for d := 0; d < dim; d++ {
		for r := 0; r < dim; r++ {
			var sum float64
			for v := 0; v < g.desc.NVerts; v++ {
				sum += g.verts.At(v, d) * dphi.At(v, r)
			}
			J.Set(d, r, sum)
		}
	}
	return
}
