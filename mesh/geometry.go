package mesh

import "github.com/notargets/gofea/utils"

// ElementDesc is the reference cell geometry for one cell kind: the local
// vertex coordinate template on the unit cell [0,1]^dim and the ordered
// vertex tuples of its local edges and faces. Static for the run.
type ElementDesc struct {
	Name   string
	Dim    int
	NVerts int
	Coors  utils.Matrix // NVerts x Dim, unit cell vertex template
	Edges  [][2]int
	Faces  [][4]int
}

var Line2 = &ElementDesc{
	Name:   "1_2",
	Dim:    1,
	NVerts: 2,
	Coors:  utils.NewMatrix(2, 1, []float64{0, 1}),
}

var Quad4 = &ElementDesc{
	Name:   "2_4",
	Dim:    2,
	NVerts: 4,
	Coors: utils.NewMatrix(4, 2, []float64{
		0, 0,
		1, 0,
		1, 1,
		0, 1,
	}),
	Edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
}

// Hex8 vertex ordering: bottom quad 0-3, top quad 4-7 with vertex 4 above
// vertex 0. Face order: bottom, x=0, y=0, top, x=1, y=1, the order assumed
// by the hex refinement templates.
var Hex8 = &ElementDesc{
	Name:   "3_8",
	Dim:    3,
	NVerts: 8,
	Coors: utils.NewMatrix(8, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		0, 0, 1,
		1, 0, 1,
		1, 1, 1,
		0, 1, 1,
	}),
	Edges: [][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	},
	Faces: [][4]int{
		{0, 1, 2, 3},
		{0, 3, 7, 4},
		{0, 1, 5, 4},
		{4, 5, 6, 7},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
	},
}

// NFacets returns the local facet count for facets of dimension dim.
func (ed *ElementDesc) NFacets(dim int) int {
	switch dim {
	case 1:
		return len(ed.Edges)
	case 2:
		return len(ed.Faces)
	}
	panic("unsupported facet dimension")
}

// FacetVerts returns the local vertex tuple of facet lf of dimension dim.
func (ed *ElementDesc) FacetVerts(dim, lf int) []int {
	switch dim {
	case 1:
		return []int{ed.Edges[lf][0], ed.Edges[lf][1]}
	case 2:
		f := ed.Faces[lf]
		return []int{f[0], f[1], f[2], f[3]}
	}
	panic("unsupported facet dimension")
}

func descByName(name string) *ElementDesc {
	switch name {
	case Line2.Name:
		return Line2
	case Quad4.Name:
		return Quad4
	case Hex8.Name:
		return Hex8
	}
	panic("unknown element desc: " + name)
}
