// Package uvstat measures how faithfully texture coordinates preserve the
// geometry of the triangles they were computed for.
package uvstat

import (
	"errors"
	"fmt"
	"math"

	"github.com/textureflow/uvunwrap/vec"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes the UV distortion of a triangle soup.
//
// Edge stretch is the UV length of an edge times the scale size divided by
// its 3D length; an isometric unwrap has stretch 1 on every edge. Area ratio
// is the same comparison for triangle areas, squared scale included.
type Report struct {
	Triangles  int
	Degenerate int // triangles with zero 3D area, excluded from statistics.
	// Collapsed counts non degenerate triangles with zero UV area.
	Collapsed int

	StretchMean, StretchStdDev float64
	StretchMin, StretchMax     float64
	AreaMean, AreaStdDev       float64
}

// String returns a one line human readable summary.
func (r Report) String() string {
	return fmt.Sprintf("%d triangles (%d degenerate, %d collapsed): stretch %.4g±%.3g [%.4g, %.4g], area ratio %.4g±%.3g",
		r.Triangles, r.Degenerate, r.Collapsed,
		r.StretchMean, r.StretchStdDev, r.StretchMin, r.StretchMax,
		r.AreaMean, r.AreaStdDev)
}

// Measure compares positions, 9 values per triangle, against uvs, 6 values
// per triangle, for the scale size the uvs were computed with.
func Measure(positions, uvs []float64, scaleSize float64) (Report, error) {
	if len(positions)%9 != 0 {
		return Report{}, fmt.Errorf("positions length %d is not a multiple of 9", len(positions))
	}
	n := len(positions) / 9
	if len(uvs) != 6*n {
		return Report{}, fmt.Errorf("got %d uv values for %d triangles, want %d", len(uvs), n, 6*n)
	}
	if !(scaleSize > 0) {
		return Report{}, fmt.Errorf("scale size must be positive, got %g", scaleSize)
	}
	r := Report{Triangles: n}
	var stretch, area []float64
	for i := 0; i < n; i++ {
		var p, q [3][]float64
		for j := 0; j < 3; j++ {
			p[j] = positions[9*i+3*j : 9*i+3*j+3]
			q[j] = uvs[6*i+2*j : 6*i+2*j+2]
		}
		a3, err := area3(p)
		if err != nil {
			return Report{}, err
		}
		if a3 == 0 {
			r.Degenerate++
			continue
		}
		a2, err := area2(q)
		if err != nil {
			return Report{}, err
		}
		if a2 == 0 {
			r.Collapsed++
		}
		area = append(area, a2*scaleSize*scaleSize/a3)
		for j := 0; j < 3; j++ {
			k := (j + 1) % 3
			l3, err := vec.Distance(p[j], p[k])
			if err != nil {
				return Report{}, err
			}
			l2, err := vec.Distance(q[j], q[k])
			if err != nil {
				return Report{}, err
			}
			stretch = append(stretch, l2*scaleSize/l3)
		}
	}
	if len(stretch) == 0 {
		return r, nil
	}
	r.StretchMean, r.StretchStdDev = meanStdDev(stretch)
	r.StretchMin, r.StretchMax = floats.Min(stretch), floats.Max(stretch)
	r.AreaMean, r.AreaStdDev = meanStdDev(area)
	return r, nil
}

func meanStdDev(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// area3 returns the area of a 3D triangle.
func area3(p [3][]float64) (float64, error) {
	e1, err := vec.Sub(p[1], p[0])
	if err != nil {
		return 0, err
	}
	e2, err := vec.Sub(p[2], p[0])
	if err != nil {
		return 0, err
	}
	c, err := vec.Cross(e1, e2)
	if err != nil {
		return 0, err
	}
	return vec.Len(c) / 2, nil
}

// area2 returns the unsigned area of a 2D triangle by lifting it onto the z=0 plane.
func area2(q [3][]float64) (float64, error) {
	var lifted [3][]float64
	for i := range q {
		lifted[i] = []float64{q[i][0], q[i][1], 0}
	}
	a, err := area3(lifted)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(a) {
		return 0, errors.New("non-finite uv area")
	}
	return a, nil
}
