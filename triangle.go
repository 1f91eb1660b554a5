package uvunwrap

import (
	"fmt"
	"math"

	"github.com/textureflow/uvunwrap/internal/d2"
	"github.com/textureflow/uvunwrap/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle is a single mesh triangle in triangle soup layout. Its geometry
// is fixed at construction and its UVs are assigned at most once.
type Triangle struct {
	points     [3]r3.Vec
	box        d3.Box
	degenerate bool
	normal     r3.Vec // unit length when not degenerate.
	tol        float64

	uv     [3]r2.Vec
	mapped bool
}

// NewTriangle creates a triangle from 9 coordinates, 3 consecutive points.
// Vertices closer than tol are considered the same vertex. A tol of zero
// selects machine epsilon.
func NewTriangle(p []float64, tol float64) (Triangle, error) {
	if len(p) != 9 {
		return Triangle{}, inputErrorf("triangle needs 9 coordinates, got %d", len(p))
	}
	if tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		return Triangle{}, inputErrorf("bad vertex tolerance %g", tol)
	}
	if tol == 0 {
		tol = d3.Epsilon
	}
	t := Triangle{tol: tol}
	for i := range t.points {
		t.points[i] = r3.Vec{X: p[3*i], Y: p[3*i+1], Z: p[3*i+2]}
		if !d3.Finite(t.points[i]) {
			return Triangle{}, inputErrorf("non-finite vertex %v", t.points[i])
		}
	}
	t.box = d3.BoxOf(t.points[:])
	e1 := r3.Sub(t.points[1], t.points[0])
	e2 := r3.Sub(t.points[2], t.points[0])
	t.degenerate = degenerate(e1, e2, tol)
	if !t.degenerate {
		t.normal = d3.Unit(r3.Cross(e1, e2))
		if !d3.Finite(t.normal) {
			return Triangle{}, fmt.Errorf("%w: non-finite normal %v for vertices %v", ErrComputation, t.normal, t.points)
		}
	}
	return t, nil
}

// degenerate reports whether the edges from the first vertex span zero area:
// either edge collapses or both point along the same line.
func degenerate(e1, e2 r3.Vec, tol float64) bool {
	l1, l2 := d3.Norm(e1), d3.Norm(e2)
	if l1 <= tol || l2 <= tol {
		return true
	}
	u1 := r3.Scale(1/l1, e1)
	u2 := r3.Scale(1/l2, e2)
	return d3.Norm(r3.Sub(u1, u2)) <= d3.Epsilon ||
		d3.Norm(r3.Add(u1, u2)) <= d3.Epsilon
}

// Points returns the triangle vertices in input order.
func (t *Triangle) Points() [3]r3.Vec { return t.points }

// Bounds returns the axis aligned bounding box of the triangle.
func (t *Triangle) Bounds() r3.Box { return r3.Box(t.box) }

// Degenerate reports whether the triangle has zero area.
func (t *Triangle) Degenerate() bool { return t.degenerate }

// Normal returns the unit normal following the right hand rule over the
// vertex order. It is the zero vector for degenerate triangles.
func (t *Triangle) Normal() r3.Vec { return t.normal }

// UV returns the assigned texture coordinates and whether they were assigned.
func (t *Triangle) UV() ([3]r2.Vec, bool) { return t.uv, t.mapped }

// Mapped reports whether UVs were assigned.
func (t *Triangle) Mapped() bool { return t.mapped }

// IndexOfVertex returns the index of the vertex within tolerance of p or -1.
func (t *Triangle) IndexOfVertex(p r3.Vec) int {
	for i := range t.points {
		if d3.Dist(t.points[i], p) <= t.tol {
			return i
		}
	}
	return -1
}

// IsAdjacentTo reports whether at least two of t's vertices are vertices of
// other. Triangles with disjoint bounding boxes are rejected early.
func (t *Triangle) IsAdjacentTo(other *Triangle) bool {
	if !t.box.Overlaps(other.box, t.tol) {
		return false
	}
	shared := 0
	for _, p := range t.points {
		if other.IndexOfVertex(p) >= 0 {
			shared++
		}
	}
	return shared >= 2
}

// UnwrapStart begins a new chart at t. The first vertex maps to the origin
// and the first edge lies on the positive U axis scaled by 1/scaleSize.
func (t *Triangle) UnwrapStart(scaleSize float64) error {
	if !(scaleSize > 0) || math.IsInf(scaleSize, 1) {
		return inputErrorf("scale size must be positive and finite, got %g", scaleSize)
	}
	if t.degenerate {
		return ErrDegenerate
	}
	tp := r2.Vec{}
	tv := r2.Vec{X: d3.Dist(t.points[0], t.points[1]) / scaleSize}
	return t.assign([3]r2.Vec{
		tp,
		tv,
		t.UnwrapPoint(t.points[2], t.points[0], t.points[1], tp, tv),
	})
}

// UnwrapFrom assigns t's UVs by unfolding it across the edge it shares with
// the already unwrapped neighbor. Shared vertices take the neighbor's UVs
// unchanged so both triangles agree exactly along the edge.
// If the triangles do not share exactly one edge a *TopologyError is returned
// and t is left unassigned.
func (t *Triangle) UnwrapFrom(neighbor *Triangle) error {
	switch {
	case t.degenerate || neighbor.degenerate:
		return ErrDegenerate
	case !neighbor.mapped:
		return ErrUnassigned
	case t.mapped:
		return ErrAssigned
	}
	var (
		at      [3]int // neighbor vertex index of each of t's vertices.
		seen    [3]bool
		matches int
		ref     []int
	)
	for i := range t.points {
		at[i] = neighbor.IndexOfVertex(t.points[i])
		if at[i] < 0 {
			continue
		}
		matches++
		seen[at[i]] = true
	}
	for j := range seen {
		if seen[j] {
			ref = append(ref, j)
		}
	}
	if matches != 2 || len(ref) != 2 {
		return &TopologyError{Triangle: -1, Neighbor: -1, Shared: matches}
	}
	sp, sv := neighbor.points[ref[0]], neighbor.points[ref[1]]
	tp, tv := neighbor.uv[ref[0]], neighbor.uv[ref[1]]
	var uv [3]r2.Vec
	for i, p := range t.points {
		if at[i] >= 0 {
			uv[i] = neighbor.uv[at[i]]
		} else {
			uv[i] = t.UnwrapPoint(p, sp, sv, tp, tv)
		}
	}
	return t.assign(uv)
}

// UnwrapPoint maps p to texture space given a reference edge sp→sv of t's
// plane whose image is tp→tv. p is decomposed along the edge and along the
// in-plane perpendicular, as fractions of the edge length, and rebuilt from
// the image edge and its perpendicular. t must not be degenerate.
func (t *Triangle) UnwrapPoint(p, sp, sv r3.Vec, tp, tv r2.Vec) r2.Vec {
	edge := r3.Sub(sv, sp)
	ortho := r3.Cross(edge, t.normal)
	d := r3.Sub(p, sp)
	x := d3.Resolute(edge, d) / d3.Norm(edge)
	y := d3.Resolute(ortho, d) / d3.Norm(ortho)
	img := r2.Sub(tv, tp)
	q := r2.Add(r2.Scale(x, img), r2.Scale(y, d2.Perp(img)))
	return r2.Add(tp, q)
}

// UnwrapEmpty collapses all of t's UVs onto the origin.
// It is used for degenerate triangles.
func (t *Triangle) UnwrapEmpty() error {
	return t.assign([3]r2.Vec{})
}

func (t *Triangle) assign(uv [3]r2.Vec) error {
	if t.mapped {
		return ErrAssigned
	}
	t.uv = uv
	t.mapped = true
	return nil
}
