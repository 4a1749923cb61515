/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofea/fields"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/refine"

	"github.com/spf13/cobra"
)

type RefineJob struct {
	JobFile      string
	Output       string
	TransformOut string
	Verbose      bool
}

type InputParameters struct {
	Title      string   `yaml:"Title"`
	Shape      string   `yaml:"Shape"` // quad or hex
	Nx         int      `yaml:"Nx"`
	Ny         int      `yaml:"Ny"`
	Nz         int      `yaml:"Nz"`
	Order      int      `yaml:"Order"`
	Predicates []string `yaml:"Predicates"` // one refinement pass per entry
}

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Shape\n", ip.Shape)
	fmt.Printf("[%d x %d x %d]\t\t= Cells\n", ip.Nx, ip.Ny, ip.Nz)
	fmt.Printf("[%d]\t\t\t\t= Approximation Order\n", ip.Order)
	fmt.Printf("%v\t= Refinement Passes\n", ip.Predicates)
}

// RefineCmd represents the refine command
var RefineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Refine a structured mesh with hanging nodes and write the result",
	Long:  `Refine a structured mesh with hanging nodes and write the result`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("refine called")
		job := &RefineJob{}
		if job.JobFile, err = cmd.Flags().GetString("jobFile"); err != nil {
			panic(err)
		}
		job.Output, _ = cmd.Flags().GetString("output")
		job.TransformOut, _ = cmd.Flags().GetString("transform")
		job.Verbose, _ = cmd.Flags().GetBool("verbose")
		ip := processInput(job)
		RunRefine(job, ip)
	},
}

func processInput(job *RefineJob) (ip *InputParameters) {
	var (
		err      error
		willExit bool
	)
	if len(job.JobFile) == 0 {
		err = fmt.Errorf("must supply a job file (-F, --jobFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Refine Center"
Shape: quad
Nx: 3
Ny: 3
Order: 2
Predicates:
  - center
########################################
`
		fmt.Printf("Example of a job file:%s", exampleFile)
		willExit = true
	}
	if willExit {
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(job.JobFile); err != nil {
		panic(err)
	}
	ip = &InputParameters{Nz: 1, Order: 1}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	ip.Print()
	return
}

func RunRefine(job *RefineJob, ip *InputParameters) {
	var (
		m   *mesh.Mesh
		err error
	)
	switch ip.Shape {
	case "quad", "":
		m = mesh.NewUniformQuadMesh(ip.Nx, ip.Ny, 0, 1, 0, 1)
	case "hex":
		m = mesh.NewUniformHexMesh(ip.Nx, ip.Ny, ip.Nz, 0, 1, 0, 1, 0, 1)
	default:
		panic(fmt.Errorf("unknown shape %q, must be quad or hex", ip.Shape))
	}

	var (
		res  refine.Result
		subs []refine.Sub
	)
	res.Mesh = m
	for pass, name := range ip.Predicates {
		flag := flagCells(res.Mesh, name)
		if res, err = refine.Refine(res.Mesh, flag, subs); err != nil {
			panic(err)
		}
		subs = res.Subs
		if job.Verbose {
			fmt.Printf("pass %d [%s]: %d cells, %d vertices, %d substitutions\n",
				pass, name, res.Mesh.NCells(), res.Mesh.NVerts(), len(res.Subs))
		}
	}

	f, err := fields.NewField(res.Mesh, mesh.SelectCells(res.Mesh, "Omega", mesh.AllCells), ip.Order)
	if err != nil {
		panic(err)
	}
	fmt.Printf("field: order %d, %d DOFs (%d vertex, %d edge, %d face, %d bubble)\n",
		f.Order, f.NDOF, f.NVertexDOF, f.NEdgeDOF, f.NFaceDOF, f.NBubbleDOF)

	T, err := res.BasisTransform(ip.Order)
	if err != nil {
		panic(err)
	}
	R := refine.TransformsToCSR(T)
	n, _ := R.Dims()
	fmt.Printf("basis transform: %d cells, %d x %d assembled, %d nonzeros\n",
		len(T), n, n, R.NNZ())

	if len(job.Output) != 0 {
		if err = res.Mesh.WriteYAML(job.Output); err != nil {
			panic(err)
		}
		fmt.Printf("wrote refined mesh to %s\n", job.Output)
	}
	if len(job.TransformOut) != 0 {
		// per-cell matrices as a (nCells, nLocal, nLocal) array
		out := make([][][]float64, len(T))
		for k, mtx := range T {
			nr, _ := mtx.Dims()
			out[k] = make([][]float64, nr)
			for i := 0; i < nr; i++ {
				out[k][i] = mtx.Row(i).Data()
			}
		}
		var data []byte
		if data, err = yaml.Marshal(out); err != nil {
			panic(err)
		}
		if err = ioutil.WriteFile(job.TransformOut, data, 0644); err != nil {
			panic(err)
		}
		fmt.Printf("wrote basis transform to %s\n", job.TransformOut)
	}
}

// flagCells maps a predicate name to a refine flag over the mesh cells.
func flagCells(m *mesh.Mesh, name string) (flag []bool) {
	flag = make([]bool, m.NCells())
	var pred mesh.CellPredicate
	switch name {
	case "all":
		pred = mesh.AllCells
	case "center":
		pred = mesh.CenterCell
	case "half":
		pred = mesh.LowerHalfCells
	default:
		panic(fmt.Errorf("unknown refine predicate %q, must be all, center or half", name))
	}
	for _, k := range mesh.SelectCells(m, name, pred).Cells {
		flag[k] = true
	}
	return
}

func init() {
	rootCmd.AddCommand(RefineCmd)
	RefineCmd.Flags().StringP("jobFile", "F", "", "job file in YAML format")
	RefineCmd.Flags().StringP("output", "o", "", "output file for the refined mesh in YAML format")
	RefineCmd.Flags().StringP("transform", "T", "", "output file for the basis transform array in YAML format")
	RefineCmd.Flags().BoolP("verbose", "v", false, "print progress per refinement pass")
}
