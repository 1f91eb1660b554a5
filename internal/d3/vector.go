package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// R3 vector helpers complementing gonum's r3 package.

// Epsilon is the float64 machine epsilon, the spacing between 1 and the
// next representable value.
const Epsilon = 0x1p-52

func Elem(sides float64) r3.Vec {
	return r3.Vec{
		X: sides,
		Y: sides,
		Z: sides,
	}
}

func EqualWithin(a, b r3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

// MinElem return a vector with the minimum components of two vectors.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem return a vector with the maximum components of two vectors.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

func Max(a r3.Vec) float64 {
	return math.Max(a.Z, math.Max(a.X, a.Y))
}

// Finite reports whether all components of a are neither NaN nor infinite.
func Finite(a r3.Vec) bool {
	return !math.IsNaN(a.X) && !math.IsInf(a.X, 0) &&
		!math.IsNaN(a.Y) && !math.IsInf(a.Y, 0) &&
		!math.IsNaN(a.Z) && !math.IsInf(a.Z, 0)
}

// Norm returns the euclidean length of a without intermediate overflow.
func Norm(a r3.Vec) float64 {
	return math.Hypot(a.X, math.Hypot(a.Y, a.Z))
}

// Unit returns a scaled to unit length. Zero or infinite length vectors
// produce non-finite components.
func Unit(a r3.Vec) r3.Vec {
	return r3.Scale(1/Norm(a), a)
}

// Resolute returns the scalar projection of v onto direction d.
func Resolute(d, v r3.Vec) float64 {
	return r3.Dot(Unit(d), v)
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b r3.Vec) float64 {
	return Norm(r3.Sub(a, b))
}

type Set []r3.Vec

// Min return the minimum components of a set of vectors.
func (a Set) Min() r3.Vec {
	vmin := a[0]
	for _, v := range a[1:] {
		vmin = MinElem(vmin, v)
	}
	return vmin
}

// Max return the maximum components of a set of vectors.
func (a Set) Max() r3.Vec {
	vmax := a[0]
	for _, v := range a[1:] {
		vmax = MaxElem(vmax, v)
	}
	return vmax
}
