package uvunwrap

import (
	"math"

	"github.com/textureflow/uvunwrap/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Texel density heuristic: the longest model axis spans this many UV units.
const scaleDivisions = 5

// SuggestScaleSize returns a scale size mapping the longest axis of the
// positions' bounding box to 5 UV units. It returns 1 when the positions
// have no extent.
func SuggestScaleSize(positions []float64) float64 {
	n := len(positions) / 3
	if n == 0 {
		return 1
	}
	bb := d3.Box{Min: d3.Elem(math.MaxFloat64), Max: d3.Elem(-math.MaxFloat64)}
	for i := 0; i < n; i++ {
		bb = bb.Include(vertexAt(positions, i))
	}
	size := d3.Max(bb.Size())
	if !(size > 0) || math.IsInf(size, 0) {
		return 1
	}
	return size / scaleDivisions
}

// SuggestVertexTol returns a vertex tolerance relative to the model scale:
// 1/256th of the shortest non-zero triangle edge. It returns zero when no
// triangle has a non-zero edge.
func SuggestVertexTol(positions []float64) float64 {
	minDist := math.Inf(1)
	for t := 0; t < len(positions)/9; t++ {
		for j := 0; j < 3; j++ {
			a := vertexAt(positions, 3*t+j)
			b := vertexAt(positions, 3*t+(j+1)%3)
			if d := d3.Dist(a, b); d > 0 && d < minDist {
				minDist = d
			}
		}
	}
	if math.IsInf(minDist, 1) {
		return 0
	}
	return minDist / 256
}

func vertexAt(positions []float64, i int) r3.Vec {
	return r3.Vec{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]}
}
