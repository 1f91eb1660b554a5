package d3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// d3.Box is a 3d bounding box.
type Box r3.Box

// BoxOf returns the smallest box enclosing all vectors in the set.
func BoxOf(s Set) Box {
	return Box{Min: s.Min(), Max: s.Max()}
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Overlaps reports whether two boxes intersect on all three axes,
// treating boxes within tol of each other as touching.
// Boxes sharing only a face, edge or corner overlap.
func (a Box) Overlaps(b Box, tol float64) bool {
	return a.Max.X+tol >= b.Min.X && b.Max.X+tol >= a.Min.X &&
		a.Max.Y+tol >= b.Min.Y && b.Max.Y+tol >= a.Min.Y &&
		a.Max.Z+tol >= b.Min.Z && b.Max.Z+tol >= a.Min.Z
}
