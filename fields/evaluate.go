package fields

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// Status is the per-point outcome of the reference-coordinate search.
type Status int

const (
	StatusInside       Status = iota // point inside its cell
	StatusExtrapolated               // outside, within close limit
	StatusOutside                    // outside, beyond close limit
	StatusFailure                    // generic search failure
	StatusConvergence                // Newton iteration did not converge
	StatusNoCandidates               // no candidate cell (close limit 0, general strategy)
)

func (s Status) String() string {
	switch s {
	case StatusInside:
		return "inside"
	case StatusExtrapolated:
		return "extrapolated"
	case StatusOutside:
		return "outside"
	case StatusFailure:
		return "failure"
	case StatusConvergence:
		return "no convergence"
	case StatusNoCandidates:
		return "no candidate cells"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Strategy selects how candidate cells are searched for a query point.
type Strategy string

const (
	StrategyGeneral Strategy = "general"
	StrategyConvex  Strategy = "convex"
)

// EvalMode selects the interpolated quantity.
type EvalMode int

const (
	ModeValue EvalMode = iota
	ModeGradient
)

// RefCoorFinder is the external root-finding collaborator: for each query
// point it produces reference-cell coordinates, the owning cell, and a
// status code.
type RefCoorFinder interface {
	FindRefCoords(pts utils.Matrix, m *mesh.Mesh, strategy Strategy,
		closeLimit float64) (refCoors utils.Matrix, cells utils.Index, status []Status, err error)
}

// EvalCache holds reusable point-location results for repeated evaluation at
// unchanged coordinates. It is owned by the caller and invalidated only
// through Invalidate.
type EvalCache struct {
	RefCoors utils.Matrix
	Cells    utils.Index
	Status   []Status
	valid    bool
}

func (c *EvalCache) Invalidate() { c.valid = false }

// EvalOptions configure EvaluateAt. The zero value evaluates field values
// with the general strategy and no extrapolation beyond CloseLimit 0.
type EvalOptions struct {
	Mode       EvalMode
	Strategy   Strategy
	CloseLimit float64

	RetRefCoors bool
	RetCells    bool
	RetStatus   bool

	Cache   *EvalCache
	Verbose bool
}

// EvalResult carries the interpolated values and, when requested, the
// reference coordinates, owning cells and status codes.
type EvalResult struct {
	Vals     utils.Matrix // nPts x 1 (values) or nPts x dim (gradients)
	RefCoors utils.Matrix
	Cells    utils.Index
	Status   []Status
}

// EvaluateAt interpolates the source DOF values at the query points. Points
// whose status exceeds StatusExtrapolated get NaN results unless RetStatus is
// set, so a caller not inspecting statuses cannot mistake them for valid
// values.
func (f *Field) EvaluateAt(pts utils.Matrix, dofVals []float64, finder RefCoorFinder,
	opts EvalOptions) (res EvalResult, err error) {
	var (
		nPts, dim = pts.Dims()
	)
	if len(dofVals) != f.NDOF {
		err = fmt.Errorf("have %d DOF values for a field with %d DOFs", len(dofVals), f.NDOF)
		return
	}
	if dim != f.Mesh.Dim {
		err = fmt.Errorf("query points have dimension %d, mesh has %d", dim, f.Mesh.Dim)
		return
	}
	if opts.Strategy == "" {
		opts.Strategy = StrategyGeneral
	}
	if opts.Verbose {
		fmt.Printf("evaluating in %d points...\n", nPts)
	}

	var (
		refCoors utils.Matrix
		cells    utils.Index
		status   []Status
	)
	if opts.Cache != nil && opts.Cache.valid {
		refCoors, cells, status = opts.Cache.RefCoors, opts.Cache.Cells, opts.Cache.Status
	} else {
		refCoors, cells, status, err = finder.FindRefCoords(pts, f.Mesh, opts.Strategy, opts.CloseLimit)
		if err != nil {
			return
		}
		if opts.Cache != nil {
			opts.Cache.RefCoors, opts.Cache.Cells, opts.Cache.Status = refCoors, cells, status
			opts.Cache.valid = true
		}
	}

	nOut := 1
	if opts.Mode == ModeGradient {
		nOut = dim
	}
	res.Vals = utils.NewMatrix(nPts, nOut)

	for p := 0; p < nPts; p++ {
		if status[p] > StatusExtrapolated {
			continue
		}
		ic := f.CellRemap[cells[p]]
		if ic < 0 {
			panic(fmt.Errorf("owning cell %d of point %d lies outside the field region", cells[p], p))
		}
		ref := refCoors.Row(p).Data()
		switch opts.Mode {
		case ModeValue:
			phi := f.ND.BasisAt(ref)
			var val float64
			for s := 0; s < f.ND.NLocal; s++ {
				val += phi.AtVec(s) * dofVals[f.Econn[ic][s]]
			}
			res.Vals.Set(p, 0, val)
		case ModeGradient:
			dphi := f.ND.BasisGradAt(ref)
			g := NewGeoMap(f.Mesh.Desc, f.Mesh.CellVertexCoords(cells[p]))
			Jinv, ierr := g.Jacobian(ref).Inverse()
			if ierr != nil {
				err = fmt.Errorf("degenerate geometric mapping in cell %d: %v", cells[p], ierr)
				return
			}
			// dphi/dx = Jinv^T * dphi/dref, weighted by the DOF values.
			for d := 0; d < dim; d++ {
				var val float64
				for s := 0; s < f.ND.NLocal; s++ {
					var dphys float64
					for r := 0; r < dim; r++ {
						dphys += Jinv.At(r, d) * dphi.At(s, r)
					}
					val += dphys * dofVals[f.Econn[ic][s]]
				}
				res.Vals.Set(p, d, val)
			}
		}
	}

	if !opts.RetStatus {
		for p := 0; p < nPts; p++ {
			if status[p] > StatusExtrapolated {
				for d := 0; d < nOut; d++ {
					res.Vals.Set(p, d, math.NaN())
				}
			}
		}
	}
	if opts.RetRefCoors {
		res.RefCoors = refCoors
	}
	if opts.RetCells || opts.RetStatus || opts.RetRefCoors {
		res.Cells = cells
	}
	if opts.RetStatus || opts.RetRefCoors {
		res.Status = status
	}
	if opts.Verbose {
		fmt.Printf("...done\n")
	}
	return
}
