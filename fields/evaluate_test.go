package fields

import (
	"math"
	"testing"

	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridFinder locates points on a uniform quad grid, where the inverse
// geometric mapping is affine per cell. It stands in for a general inverse
// mapping in the evaluator tests.
type gridFinder struct {
	nx, ny         int
	x0, x1, y0, y1 float64
}

func (gl gridFinder) FindRefCoords(pts utils.Matrix, m *mesh.Mesh, strategy Strategy,
	closeLimit float64) (refCoors utils.Matrix, cells utils.Index, status []Status, err error) {
	var (
		nPts, _ = pts.Dims()
		dx      = (gl.x1 - gl.x0) / float64(gl.nx)
		dy      = (gl.y1 - gl.y0) / float64(gl.ny)
	)
	refCoors = utils.NewMatrix(nPts, 2)
	cells = make(utils.Index, nPts)
	status = make([]Status, nPts)
	clampCell := func(i, n int) int {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	for p := 0; p < nPts; p++ {
		fx := (pts.At(p, 0) - gl.x0) / dx
		fy := (pts.At(p, 1) - gl.y0) / dy
		i := clampCell(int(math.Floor(fx)), gl.nx)
		j := clampCell(int(math.Floor(fy)), gl.ny)
		u, v := fx-float64(i), fy-float64(j)
		cells[p] = j*gl.nx + i
		refCoors.SetRow(p, []float64{u, v})
		dist := math.Max(math.Max(-u, u-1), math.Max(-v, v-1))
		switch {
		case dist <= 0:
			status[p] = StatusInside
		case closeLimit == 0 && strategy == StrategyGeneral:
			status[p] = StatusNoCandidates
		case dist <= closeLimit:
			status[p] = StatusExtrapolated
		default:
			status[p] = StatusOutside
		}
	}
	return
}

func testField(t *testing.T, order int) (f *Field, finder gridFinder) {
	m := mesh.NewUniformQuadMesh(2, 2, 0, 1, 0, 1)
	f, err := NewField(m, mesh.SelectCells(m, "all", mesh.AllCells), order)
	require.NoError(t, err)
	finder = gridFinder{nx: 2, ny: 2, x0: 0, x1: 1, y0: 0, y1: 1}
	return
}

func linearDOFs(f *Field) (dofVals []float64) {
	coords := f.Coords()
	dofVals = make([]float64, f.NDOF)
	for i := 0; i < f.NDOF; i++ {
		dofVals[i] = coords.At(i, 0) + 2*coords.At(i, 1)
	}
	return
}

func TestEvaluateValues(t *testing.T) {
	for order := 1; order <= 3; order++ {
		f, finder := testField(t, order)
		dofVals := linearDOFs(f)
		pts := utils.NewMatrix(4, 2, []float64{
			0.3, 0.3,
			0.7, 0.2,
			0.5, 0.5, // on the shared vertex
			1.0, 1.0, // on the domain boundary
		})
		res, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{RetStatus: true})
		require.NoError(t, err)
		for p := 0; p < 4; p++ {
			assert.Equal(t, StatusInside, res.Status[p], "order %d point %d", order, p)
			want := pts.At(p, 0) + 2*pts.At(p, 1)
			assert.InDelta(t, want, res.Vals.At(p, 0), 1.e-12, "order %d point %d", order, p)
		}

		// re-evaluating with unchanged inputs reproduces the result exactly
		res2, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{RetStatus: true})
		require.NoError(t, err)
		assert.Equal(t, res.Vals.Data(), res2.Vals.Data())
		assert.Equal(t, res.Cells, res2.Cells)
		assert.Equal(t, res.Status, res2.Status)
	}
}

func TestEvaluateQuadraticExact(t *testing.T) {
	f, finder := testField(t, 2)
	coords := f.Coords()
	dofVals := make([]float64, f.NDOF)
	for i := 0; i < f.NDOF; i++ {
		x, y := coords.At(i, 0), coords.At(i, 1)
		dofVals[i] = x*x + x*y - y*y
	}
	pts := utils.NewMatrix(2, 2, []float64{0.37, 0.81, 0.63, 0.11})
	res, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{})
	require.NoError(t, err)
	for p := 0; p < 2; p++ {
		x, y := pts.At(p, 0), pts.At(p, 1)
		assert.InDelta(t, x*x+x*y-y*y, res.Vals.At(p, 0), 1.e-12)
	}
}

func TestEvaluateGradient(t *testing.T) {
	f, finder := testField(t, 2)
	dofVals := linearDOFs(f)
	pts := utils.NewMatrix(2, 2, []float64{0.3, 0.3, 0.8, 0.6})
	res, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{Mode: ModeGradient})
	require.NoError(t, err)
	r, c := res.Vals.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	for p := 0; p < 2; p++ {
		assert.InDelta(t, 1.0, res.Vals.At(p, 0), 1.e-12)
		assert.InDelta(t, 2.0, res.Vals.At(p, 1), 1.e-12)
	}
}

func TestEvaluateOutsidePoints(t *testing.T) {
	f, finder := testField(t, 1)
	dofVals := linearDOFs(f)
	pts := utils.NewMatrix(2, 2, []float64{
		1.05, 0.5, // just outside
		2.0, 0.5, // far outside
	})

	// With a close limit the near point extrapolates, the far one does not.
	res, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{
		CloseLimit: 0.2, RetStatus: true,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusExtrapolated, res.Status[0])
	assert.InDelta(t, 1.05+2*0.5, res.Vals.At(0, 0), 1.e-12)
	assert.Equal(t, StatusOutside, res.Status[1])

	// Without RetStatus the out-of-range point degrades to NaN.
	res, err = f.EvaluateAt(pts, dofVals, finder, EvalOptions{CloseLimit: 0.2})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(res.Vals.At(0, 0)))
	assert.True(t, math.IsNaN(res.Vals.At(1, 0)))
	assert.Nil(t, res.Status)

	// Close limit 0 with the general strategy reports no candidates.
	res, err = f.EvaluateAt(pts, dofVals, finder, EvalOptions{RetStatus: true})
	require.NoError(t, err)
	assert.Equal(t, StatusNoCandidates, res.Status[0])
	assert.Equal(t, StatusNoCandidates, res.Status[1])
}

func TestEvaluateCache(t *testing.T) {
	f, finder := testField(t, 2)
	dofVals := linearDOFs(f)
	pts := utils.NewMatrix(2, 2, []float64{0.25, 0.75, 0.6, 0.4})

	cache := &EvalCache{}
	res1, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{Cache: cache})
	require.NoError(t, err)

	// A second evaluation with different DOF values reuses the located cells
	// and reference coordinates.
	for i := range dofVals {
		dofVals[i] *= 2
	}
	res2, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{Cache: cache})
	require.NoError(t, err)
	for p := 0; p < 2; p++ {
		assert.InDelta(t, 2*res1.Vals.At(p, 0), res2.Vals.At(p, 0), 1.e-12)
	}

	cache.Invalidate()
	res3, err := f.EvaluateAt(pts, dofVals, finder, EvalOptions{Cache: cache})
	require.NoError(t, err)
	assert.True(t, utils.NearVec(res2.Vals.Data(), res3.Vals.Data(), 1.e-14))
}

func TestEvaluateArgumentChecks(t *testing.T) {
	f, finder := testField(t, 1)
	pts := utils.NewMatrix(1, 2, []float64{0.5, 0.5})

	_, err := f.EvaluateAt(pts, make([]float64, f.NDOF+1), finder, EvalOptions{})
	assert.Error(t, err)

	pts3 := utils.NewMatrix(1, 3, []float64{0.5, 0.5, 0.5})
	_, err = f.EvaluateAt(pts3, make([]float64, f.NDOF), finder, EvalOptions{})
	assert.Error(t, err)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "inside", StatusInside.String())
	assert.Equal(t, "extrapolated", StatusExtrapolated.String())
	assert.Equal(t, "no candidate cells", StatusNoCandidates.String())
}
