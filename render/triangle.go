package render

import (
	"fmt"

	"github.com/textureflow/uvunwrap/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle with vertices in winding order.
type Triangle3 [3]r3.Vec

// Normal returns the unit normal following the right hand rule.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t[1], t[0])
	e2 := r3.Sub(t[2], t[0])
	return r3.Unit(r3.Cross(e1, e2))
}

// Degenerate returns true if two of the triangle's vertices are within tol.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t[0], t[1], tol) ||
		d3.EqualWithin(t[1], t[2], tol) ||
		d3.EqualWithin(t[2], t[0], tol)
}

// Positions flattens a model into a triangle soup buffer,
// 9 values per triangle.
func Positions(model []Triangle3) []float64 {
	out := make([]float64, 0, 9*len(model))
	for _, t := range model {
		for _, v := range t {
			out = append(out, v.X, v.Y, v.Z)
		}
	}
	return out
}

// FromPositions is the inverse of Positions.
func FromPositions(positions []float64) ([]Triangle3, error) {
	if len(positions)%9 != 0 {
		return nil, fmt.Errorf("positions length %d is not a multiple of 9", len(positions))
	}
	model := make([]Triangle3, len(positions)/9)
	for i := range model {
		for j := range model[i] {
			k := 9*i + 3*j
			model[i][j] = r3.Vec{X: positions[k], Y: positions[k+1], Z: positions[k+2]}
		}
	}
	return model, nil
}
