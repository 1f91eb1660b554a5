// Package vec implements arity-agnostic vector algebra over float64 slices.
//
// Binary operations require operands of equal length and return an error
// wrapping ErrDimension otherwise. Results are always newly allocated.
package vec

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrDimension is returned when operand lengths do not match.
var ErrDimension = errors.New("vec: dimension mismatch")

func checkLen(op string, a, b []float64) error {
	if len(a) != len(b) {
		return fmt.Errorf("%s: lengths %d and %d: %w", op, len(a), len(b), ErrDimension)
	}
	return nil
}

// Add returns a+b.
func Add(a, b []float64) ([]float64, error) {
	if err := checkLen("add", a, b); err != nil {
		return nil, err
	}
	return floats.AddTo(make([]float64, len(a)), a, b), nil
}

// Sub returns a-b.
func Sub(a, b []float64) ([]float64, error) {
	if err := checkLen("sub", a, b); err != nil {
		return nil, err
	}
	return floats.SubTo(make([]float64, len(a)), a, b), nil
}

// Neg returns -a.
func Neg(a []float64) []float64 {
	return floats.ScaleTo(make([]float64, len(a)), -1, a)
}

// Scale returns s*a.
func Scale(a []float64, s float64) []float64 {
	return floats.ScaleTo(make([]float64, len(a)), s, a)
}

// Dot returns the dot product of a and b.
func Dot(a, b []float64) (float64, error) {
	if err := checkLen("dot", a, b); err != nil {
		return 0, err
	}
	return floats.Dot(a, b), nil
}

// Len returns the Euclidean length of a.
func Len(a []float64) float64 {
	return floats.Norm(a, 2)
}

// Norm returns a scaled to unit length. The zero vector yields NaN components.
func Norm(a []float64) []float64 {
	return Scale(a, 1/Len(a))
}

// Cross returns the cross product of two 3-vectors.
func Cross(a, b []float64) ([]float64, error) {
	if len(a) != 3 || len(b) != 3 {
		return nil, fmt.Errorf("cross: lengths %d and %d, want 3: %w", len(a), len(b), ErrDimension)
	}
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}, nil
}

// Resolute returns the scalar projection of v onto direction d,
// that is dot(norm(d), v).
func Resolute(d, v []float64) (float64, error) {
	if err := checkLen("resolute", d, v); err != nil {
		return 0, err
	}
	return floats.Dot(Norm(d), v), nil
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b []float64) (float64, error) {
	if err := checkLen("distance", a, b); err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 2), nil
}
