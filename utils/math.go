package utils

import "math"

func POW(x float64, pp int) (y float64) {
	y = 1
	p := pp
	if p < 0 {
		p = -p
	}
	for i := 0; i < p; i++ {
		y *= x
	}
	if pp < 0 {
		y = 1 / y
	}
	return
}

// Near compares two floats within tol, scaled by the magnitude of a.
func Near(a, b, tol float64) bool {
	bound := tol
	if math.Abs(a) > 1 {
		bound = tol * math.Abs(a)
	}
	return math.Abs(a-b) <= bound
}

// NearVec compares float slices element-wise within tol.
func NearVec(a, b []float64, tol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Near(a[i], b[i], tol) {
			return false
		}
	}
	return true
}
