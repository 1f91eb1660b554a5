package uvunwrap

import (
	"errors"
	"fmt"
)

var (
	// ErrInput is returned for malformed positions buffers and parameters.
	ErrInput = errors.New("uvunwrap: invalid input")
	// ErrComputation signals an internal numerical invariant failure, such as a
	// non-finite normal on a triangle that passed the degeneracy checks.
	ErrComputation = errors.New("uvunwrap: computation failed")
	// ErrMeshTopology is returned when a triangle does not share exactly one
	// edge with the neighbor it is unwrapped from.
	ErrMeshTopology = errors.New("uvunwrap: inconsistent mesh topology")
	// ErrDegenerate is returned when a chart operation needs a triangle normal
	// and the triangle has zero area.
	ErrDegenerate = errors.New("uvunwrap: degenerate triangle")
	// ErrAssigned is returned when a triangle's UVs would be written twice.
	ErrAssigned = errors.New("uvunwrap: uv already assigned")
	// ErrUnassigned is returned when unwrapping from a neighbor with no UVs.
	ErrUnassigned = errors.New("uvunwrap: neighbor uv not assigned")
	// ErrUsed is returned when Unwrap is called more than once on an Engine.
	ErrUsed = errors.New("uvunwrap: engine already unwrapped")
)

// TopologyError describes a failed propagation from Neighbor to Triangle.
// Triangle and Neighbor are indices into the mesh, or -1 when the
// triangles were not obtained from an Engine.
type TopologyError struct {
	Triangle int
	Neighbor int
	// Shared is the number of Triangle vertices found in Neighbor.
	Shared int
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("%v: triangle %d shares %d vertices with neighbor %d, want 2",
		ErrMeshTopology, e.Triangle, e.Shared, e.Neighbor)
}

func (e *TopologyError) Unwrap() error { return ErrMeshTopology }

func inputErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInput}, args...)...)
}
