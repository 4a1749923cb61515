package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Basic operations
		A := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, 2., A.At(0, 1))
		At := A.Transpose()
		nr, nc := At.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.Equal(t, 4., At.At(0, 1))

		B := NewMatrix(3, 1, []float64{1, 1, 1})
		C := A.Mul(B)
		assert.True(t, NearVec([]float64{6, 15}, C.Data(), 1.e-12))
		assert.Equal(t, 6., A.RowSum(0))
	}
	{ // Identity and inverse
		I := NewIdentityMatrix(3)
		assert.True(t, I.IsIdentity(1.e-15))
		A := NewMatrix(2, 2, []float64{2, 0, 0, 4})
		Ainv, err := A.Inverse()
		assert.NoError(t, err)
		assert.True(t, NearVec([]float64{0.5, 0, 0, 0.25}, Ainv.Data(), 1.e-12))
	}
	{ // SliceRows
		A := NewMatrix(3, 2, []float64{
			0, 1,
			2, 3,
			4, 5,
		})
		R := A.SliceRows(Index{2, 0})
		assert.True(t, NearVec([]float64{4, 5, 0, 1}, R.Data(), 1.e-15))
	}
	{ // Read only
		A := NewMatrix(2, 2)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
		A.SetWritable()
		assert.NotPanics(t, func() { A.Set(0, 0, 1) })
	}
}

func TestVector(t *testing.T) {
	v := NewVector(3, []float64{1, 2, 3})
	assert.Equal(t, 6., v.Sum())
	assert.Equal(t, 1., v.Min())
	assert.Equal(t, 3., v.Max())
	v2 := v.Copy().Scale(2)
	assert.True(t, NearVec([]float64{2, 4, 6}, v2.Data(), 1.e-15))
	assert.True(t, NearVec([]float64{1, 2, 3}, v.Data(), 1.e-15))
}

func TestIndex(t *testing.T) {
	I := NewRange(0, 4)
	assert.Equal(t, Index{0, 1, 2, 3, 4}, I)
	J := Index{3, 4, 5, 6}
	assert.Equal(t, Index{3, 4}, I.Intersect(J))
	remap := Index{2, 5, 7}.PrepareRemap(9)
	assert.Equal(t, 0, remap[2])
	assert.Equal(t, 2, remap[7])
	assert.Equal(t, -1, remap[3])
	assert.Equal(t, 1, Index{2, 5, 7}.Position(5))
	assert.Equal(t, -1, Index{2, 5, 7}.Position(6))
}
