package cmd

import (
	"testing"

	"github.com/magiconair/properties/assert"
)

func TestRefineInput(t *testing.T) {
	var (
		err error
	)
	fileInput := []byte(`
Title: Refine Center
Shape: quad
Nx: 3
Ny: 3
Order: 2
Predicates:
  - center
  - center
`)
	var input InputParameters
	if err = input.Parse(fileInput); err != nil {
		panic(err)
	}
	assert.Equal(t, input.Shape, "quad")
	assert.Equal(t, input.Nx, 3)
	assert.Equal(t, input.Order, 2)
	assert.Equal(t, len(input.Predicates), 2)
	input.Print()
	assert.Equal(t, input.Predicates[0], "center")
}

func TestRunRefine(t *testing.T) {
	job := &RefineJob{Verbose: true}
	ip := &InputParameters{
		Title:      "Refine Center",
		Shape:      "quad",
		Nx:         3,
		Ny:         3,
		Nz:         1,
		Order:      2,
		Predicates: []string{"center"},
	}
	RunRefine(job, ip)
}
