package mesh

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/notargets/gofea/utils"
)

// Mesh holds vertex coordinates, the cell to vertex connectivity of a single
// cell kind, and the per-cell material ids. Facet tables and orientations are
// derived once during construction; the mesh is immutable afterwards.
type Mesh struct {
	Dim      int
	Vertices utils.Matrix // NVerts x Dim
	EToV     [][]int
	MatIDs   []int
	Desc     *ElementDesc

	facets map[int]*FacetTopology // keyed by facet dimension
}

func NewMesh(verts utils.Matrix, etov [][]int, matIDs []int, desc *ElementDesc) (m *Mesh) {
	var (
		nVerts, dim = verts.Dims()
	)
	if dim != desc.Dim {
		panic(fmt.Errorf("vertex dimension %d does not match element desc %s", dim, desc.Name))
	}
	if matIDs == nil {
		matIDs = make([]int, len(etov))
	}
	if len(matIDs) != len(etov) {
		panic(fmt.Errorf("have %d material ids for %d cells", len(matIDs), len(etov)))
	}
	for k, conn := range etov {
		if len(conn) != desc.NVerts {
			panic(fmt.Errorf("cell %d has %d vertices, want %d", k, len(conn), desc.NVerts))
		}
		for _, v := range conn {
			if v < 0 || v >= nVerts {
				panic(fmt.Errorf("cell %d references vertex %d, have %d vertices", k, v, nVerts))
			}
		}
	}
	m = &Mesh{
		Dim:      dim,
		Vertices: verts,
		EToV:     etov,
		MatIDs:   matIDs,
		Desc:     desc,
		facets:   make(map[int]*FacetTopology),
	}
	for fd := 1; fd < dim; fd++ {
		m.facets[fd] = buildFacetTopology(m, fd)
	}
	m.Vertices.SetReadOnly("Mesh.Vertices")
	return
}

func (m *Mesh) NCells() int { return len(m.EToV) }

func (m *Mesh) NVerts() int {
	nv, _ := m.Vertices.Dims()
	return nv
}

// Facets returns the derived facet topology of the given dimension
// (1 = edges, 2 = faces).
func (m *Mesh) Facets(dim int) *FacetTopology {
	ft, ok := m.facets[dim]
	if !ok {
		panic(fmt.Errorf("mesh %s has no facets of dimension %d", m.Desc.Name, dim))
	}
	return ft
}

// CellVertexCoords returns the NVerts x Dim coordinate matrix of one cell.
func (m *Mesh) CellVertexCoords(cell int) (R utils.Matrix) {
	R = NewVertexSlice(m.Vertices, m.EToV[cell])
	return
}

func NewVertexSlice(verts utils.Matrix, conn []int) (R utils.Matrix) {
	return verts.SliceRows(utils.Index(conn))
}

// NewUniformQuadMesh generates nx x ny quads covering [x0,x1] x [y0,y1],
// vertices numbered row-major from the lower-left corner.
func NewUniformQuadMesh(nx, ny int, x0, x1, y0, y1 float64) (m *Mesh) {
	var (
		nvx, nvy = nx + 1, ny + 1
		coords   = make([]float64, nvx*nvy*2)
		etov     = make([][]int, nx*ny)
	)
	for j := 0; j < nvy; j++ {
		for i := 0; i < nvx; i++ {
			iv := j*nvx + i
			coords[2*iv] = x0 + (x1-x0)*float64(i)/float64(nx)
			coords[2*iv+1] = y0 + (y1-y0)*float64(j)/float64(ny)
		}
	}
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			ll := j*nvx + i
			etov[j*nx+i] = []int{ll, ll + 1, ll + 1 + nvx, ll + nvx}
		}
	}
	m = NewMesh(utils.NewMatrix(nvx*nvy, 2, coords), etov, nil, Quad4)
	return
}

// NewUniformHexMesh generates nx x ny x nz hexes covering the box
// [x0,x1] x [y0,y1] x [z0,z1].
func NewUniformHexMesh(nx, ny, nz int, x0, x1, y0, y1, z0, z1 float64) (m *Mesh) {
	var (
		nvx, nvy, nvz = nx + 1, ny + 1, nz + 1
		coords        = make([]float64, nvx*nvy*nvz*3)
		etov          = make([][]int, nx*ny*nz)
	)
	for k := 0; k < nvz; k++ {
		for j := 0; j < nvy; j++ {
			for i := 0; i < nvx; i++ {
				iv := k*nvx*nvy + j*nvx + i
				coords[3*iv] = x0 + (x1-x0)*float64(i)/float64(nx)
				coords[3*iv+1] = y0 + (y1-y0)*float64(j)/float64(ny)
				coords[3*iv+2] = z0 + (z1-z0)*float64(k)/float64(nz)
			}
		}
	}
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				ll := k*nvx*nvy + j*nvx + i
				up := ll + nvx*nvy
				etov[k*nx*ny+j*nx+i] = []int{
					ll, ll + 1, ll + 1 + nvx, ll + nvx,
					up, up + 1, up + 1 + nvx, up + nvx,
				}
			}
		}
	}
	m = NewMesh(utils.NewMatrix(nvx*nvy*nvz, 3, coords), etov, nil, Hex8)
	return
}

// MeshSnapshot mirrors the mesh in a serializable form: the same shape as the
// raw construction inputs, so a written mesh can be read back by any
// downstream step.
type MeshSnapshot struct {
	Desc         string      `yaml:"Desc"`
	Dim          int         `yaml:"Dim"`
	Coordinates  [][]float64 `yaml:"Coordinates"`
	Connectivity [][]int     `yaml:"Connectivity"`
	MaterialIDs  []int       `yaml:"MaterialIDs"`
}

func (m *Mesh) Snapshot() (s MeshSnapshot) {
	s = MeshSnapshot{
		Desc:         m.Desc.Name,
		Dim:          m.Dim,
		Coordinates:  make([][]float64, m.NVerts()),
		Connectivity: make([][]int, m.NCells()),
		MaterialIDs:  make([]int, m.NCells()),
	}
	for i := range s.Coordinates {
		s.Coordinates[i] = m.Vertices.Row(i).Data()
	}
	for k := range s.Connectivity {
		s.Connectivity[k] = append([]int{}, m.EToV[k]...)
		s.MaterialIDs[k] = m.MatIDs[k]
	}
	return
}

func FromSnapshot(s MeshSnapshot) (m *Mesh) {
	var (
		nv     = len(s.Coordinates)
		coords = make([]float64, nv*s.Dim)
	)
	for i, row := range s.Coordinates {
		copy(coords[i*s.Dim:(i+1)*s.Dim], row)
	}
	m = NewMesh(utils.NewMatrix(nv, s.Dim, coords), s.Connectivity, s.MaterialIDs,
		descByName(s.Desc))
	return
}

func (m *Mesh) WriteYAML(path string) (err error) {
	data, err := yaml.Marshal(m.Snapshot())
	if err != nil {
		return
	}
	return os.WriteFile(path, data, 0644)
}

func ReadYAML(path string) (m *Mesh, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var s MeshSnapshot
	if err = yaml.Unmarshal(data, &s); err != nil {
		return
	}
	m = FromSnapshot(s)
	return
}
