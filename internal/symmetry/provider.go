// Package symmetry adapts an external symmetry database to the classifier.
// The database is consumed through the Provider interface; this package owns
// reduction of a structure to its primary region, vacuum padding of
// non-propagating axes, tolerance-ladder retries, timeouts, and mapping the
// provider's answer back onto original atom indices.
package symmetry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider errors.
var (
	// ErrNoSymmetry means the provider found no symmetry description at the
	// requested tolerance. The analyzer retries with looser tolerances.
	ErrNoSymmetry = errors.New("symmetry: no symmetry found")
	// ErrProviderUnavailable means no symmetry database is compiled in or
	// configured.
	ErrProviderUnavailable = errors.New("symmetry: provider unavailable")
	// ErrTimeout means a provider call exceeded its time budget.
	ErrTimeout = errors.New("symmetry: query timed out")
)

// TimeoutError reports an expired symmetry query.
type TimeoutError struct {
	Tolerance float64
	Elapsed   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("symmetry: query at tolerance %g timed out after %s", e.Tolerance, e.Elapsed)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// Dataset is a provider's raw answer for one periodic structure. Per-atom
// slices are indexed by the input atom order of the query.
type Dataset struct {
	SpaceGroupNumber    int
	InternationalSymbol string
	HallNumber          int
	HallSymbol          string
	PointGroup          string
	Choice              string

	// Wyckoffs holds one letter per input atom; EquivalentAtoms maps each
	// input atom to the representative input index of its orbit.
	Wyckoffs        []string
	EquivalentAtoms []int

	// Rotations and Translations are the symmetry operations in fractional
	// coordinates.
	Rotations    [][3][3]int
	Translations [][3]float64

	PrimitiveLattice [3][3]float64
}

// OperationCount returns the number of symmetry operations.
func (d *Dataset) OperationCount() int { return len(d.Rotations) }

// IsChiral reports whether the operations contain no improper rotation.
// A structure whose space group has only proper rotations cannot be
// superimposed on its mirror image.
func (d *Dataset) IsChiral() bool {
	if len(d.Rotations) == 0 {
		return false
	}
	for _, r := range d.Rotations {
		if determinant3(r) == -1 {
			return false
		}
	}
	return true
}

func determinant3(m [3][3]int) int {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Provider answers symmetry queries for fully periodic structures. Lattice
// rows are basis vectors; fractional coordinates refer to them. Species are
// opaque positive integers: equal values mean symmetry-equivalent kinds.
// Implementations must be safe for concurrent use.
type Provider interface {
	FindSymmetry(ctx context.Context, lattice [3][3]float64, fractional [][3]float64, species []int, tolerance float64) (*Dataset, error)
}
