// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math"
)

// Structure model errors.
var (
	// ErrInvalidStructure indicates a structure that violates a basic invariant.
	ErrInvalidStructure = errors.New("model: invalid structure")
	// ErrPositionNotFinite indicates a NaN or infinite atomic coordinate.
	ErrPositionNotFinite = errors.New("model: atomic position is not finite")
)

// Vec3 is a Cartesian 3-vector in ångströms.
type Vec3 = [3]float64

// Structure is an ordered collection of atoms with an optional periodic
// repeat cell. Species and Positions are parallel slices indexed by atom.
// Lattice holds between zero and three declared repeat vectors; Periodic
// carries one flag per declared vector. Fractional positions are optional
// and, when present, refer to the declared lattice vectors in order.
type Structure struct {
	Species    []string `json:"species"`
	Positions  []Vec3   `json:"positions"`
	Fractional []Vec3   `json:"fractional,omitempty"`
	Lattice    []Vec3   `json:"lattice,omitempty"`
	Periodic   []bool   `json:"periodic,omitempty"`
}

// NewStructure builds a non-periodic structure from parallel species and
// position slices. Use WithLattice to declare repeat vectors afterwards.
func NewStructure(species []string, positions []Vec3) (*Structure, error) {
	s := &Structure{Species: species, Positions: positions}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WithLattice returns a copy of s carrying the given repeat vectors and
// per-direction periodicity flags. The two slices must have equal length.
func (s *Structure) WithLattice(lattice []Vec3, periodic []bool) (*Structure, error) {
	c := s.Copy()
	c.Lattice = append([]Vec3(nil), lattice...)
	c.Periodic = append([]bool(nil), periodic...)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the structural invariants: parallel slice lengths agree,
// every coordinate is finite, and the periodic flag count matches the
// declared lattice vector count.
func (s *Structure) Validate() error {
	if len(s.Species) != len(s.Positions) {
		return fmt.Errorf("%w: %d species for %d positions", ErrInvalidStructure, len(s.Species), len(s.Positions))
	}
	if len(s.Fractional) != 0 && len(s.Fractional) != len(s.Positions) {
		return fmt.Errorf("%w: %d fractional positions for %d atoms", ErrInvalidStructure, len(s.Fractional), len(s.Positions))
	}
	if len(s.Lattice) > 3 {
		return fmt.Errorf("%w: %d lattice vectors declared, at most 3 allowed", ErrInvalidStructure, len(s.Lattice))
	}
	if len(s.Periodic) != len(s.Lattice) {
		return fmt.Errorf("%w: %d periodic flags for %d lattice vectors", ErrInvalidStructure, len(s.Periodic), len(s.Lattice))
	}
	for i, p := range s.Positions {
		for _, c := range p {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("%w: atom %d", ErrPositionNotFinite, i)
			}
		}
	}
	for i, v := range s.Lattice {
		for _, c := range v {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return fmt.Errorf("%w: lattice vector %d is not finite", ErrInvalidStructure, i)
			}
		}
	}
	for i, sp := range s.Species {
		if sp == "" {
			return fmt.Errorf("%w: atom %d has empty species", ErrInvalidStructure, i)
		}
	}
	return nil
}

// AtomCount returns the number of atoms.
func (s *Structure) AtomCount() int { return len(s.Positions) }

// PeriodicDirections returns the indices of declared lattice vectors whose
// periodic flag is set, in ascending order.
func (s *Structure) PeriodicDirections() []int {
	var dirs []int
	for d, p := range s.Periodic {
		if p {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// Copy returns a deep copy. Classification never mutates its input, so any
// internal adjustment (vacuum padding, region reduction) starts from a copy.
func (s *Structure) Copy() *Structure {
	c := &Structure{
		Species:   append([]string(nil), s.Species...),
		Positions: append([]Vec3(nil), s.Positions...),
		Lattice:   append([]Vec3(nil), s.Lattice...),
		Periodic:  append([]bool(nil), s.Periodic...),
	}
	if s.Fractional != nil {
		c.Fractional = append([]Vec3(nil), s.Fractional...)
	}
	return c
}

// Subset returns a new structure containing only the atoms at the given
// indices, in the given order. The lattice declaration is carried over.
func (s *Structure) Subset(indices []int) *Structure {
	c := &Structure{
		Species:   make([]string, 0, len(indices)),
		Positions: make([]Vec3, 0, len(indices)),
		Lattice:   append([]Vec3(nil), s.Lattice...),
		Periodic:  append([]bool(nil), s.Periodic...),
	}
	for _, i := range indices {
		c.Species = append(c.Species, s.Species[i])
		c.Positions = append(c.Positions, s.Positions[i])
	}
	return c
}

// ContentHash returns a stable hash of the structure's atoms and lattice,
// used as a memoization key for external symmetry queries. Positions are
// rounded to 1e-6 Å so that byte-identical inputs hash identically across
// serialization round trips.
func (s *Structure) ContentHash() string {
	h := sha256.New()
	for i := range s.Positions {
		fmt.Fprintf(h, "%s:%.6f,%.6f,%.6f;", s.Species[i], s.Positions[i][0], s.Positions[i][1], s.Positions[i][2])
	}
	for i, v := range s.Lattice {
		fmt.Fprintf(h, "L%d:%.6f,%.6f,%.6f,%t;", i, v[0], v[1], v[2], s.Periodic[i])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
