package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"
	"gonum.org/v1/gonum/spatial/r3"
)

// LoadMesh reads the triangles of a mesh file. Binary STL files are read
// natively, ASCII STL, OBJ, PLY and 3DS files are read with fauxgl.
// A mesh whose stored normals disagree with its winding is returned along
// with ErrNormalMismatch.
func LoadMesh(path string) ([]Triangle3, error) {
	if strings.ToLower(filepath.Ext(path)) == ".stl" {
		fp, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		model, err := ReadSTL(fp)
		if err == nil || errors.Is(err, ErrNormalMismatch) {
			return model, err
		}
		if !isASCIISTL(path) {
			return nil, err
		}
	}
	mesh, err := fauxgl.LoadMesh(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	model := make([]Triangle3, len(mesh.Triangles))
	for i, t := range mesh.Triangles {
		model[i] = Triangle3{fromFauxgl(t.V1.Position), fromFauxgl(t.V2.Position), fromFauxgl(t.V3.Position)}
	}
	return model, nil
}

func isASCIISTL(path string) bool {
	fp, err := os.Open(path)
	if err != nil {
		return false
	}
	defer fp.Close()
	var b [5]byte
	n, _ := fp.Read(b[:])
	return strings.EqualFold(string(b[:n]), "solid")
}

func fromFauxgl(v fauxgl.Vector) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
