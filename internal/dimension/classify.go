// Package dimension measures the dimensionality of a structure's primary
// region: the number of independent lattice directions along which its bond
// network connects to its own periodic images. Declared periodicity is a
// hint; the measured connectivity is authoritative.
package dimension

import (
	"errors"
	"fmt"

	"github.com/blueraft/matid/internal/bondgraph"
	"github.com/blueraft/matid/internal/model"
)

// ErrInconsistentPeriodicity indicates a measured rank above the declared
// periodic direction count.
var ErrInconsistentPeriodicity = errors.New("dimension: inconsistent periodicity")

// InconsistentPeriodicityError reports connectivity along more directions
// than the structure declares periodic. This cannot arise from a graph built
// against the structure's own cell, so it flags a caller contract violation.
type InconsistentPeriodicityError struct {
	Measured   int
	Declared   int
	Directions []int
}

func (e *InconsistentPeriodicityError) Error() string {
	return fmt.Sprintf("dimension: measured rank %d along directions %v exceeds %d declared periodic directions",
		e.Measured, e.Directions, e.Declared)
}

func (e *InconsistentPeriodicityError) Unwrap() error { return ErrInconsistentPeriodicity }

// Classify measures the connectivity rank of the primary region. A direction
// propagates when some primary atom's home image connects to one of its own
// translated images purely along that direction, through primary atoms only.
func Classify(g *bondgraph.Graph, regions model.RegionAssignment, s *model.Structure) (model.DimensionalityResult, error) {
	primary := make([]bool, g.AtomCount())
	for i, l := range regions.Labels {
		if i < len(primary) && l == model.RegionPrimary {
			primary[i] = true
		}
	}

	u := primaryImageComponents(g, primary)

	zero, ok := g.ShiftID([3]int{})
	if !ok {
		return model.DimensionalityResult{}, fmt.Errorf("dimension: graph has no zero shift")
	}

	var dirs []int
	for d := 0; d < 3; d++ {
		if propagates(g, u, primary, zero, d) {
			dirs = append(dirs, d)
		}
	}

	declared := len(s.PeriodicDirections())
	if len(dirs) > declared {
		return model.DimensionalityResult{}, &InconsistentPeriodicityError{
			Measured:   len(dirs),
			Declared:   declared,
			Directions: dirs,
		}
	}
	return model.DimensionalityResult{Rank: len(dirs), PropagatingDirections: dirs}, nil
}

// primaryImageComponents unions the image nodes of the shell graph along
// edges whose endpoints are both primary atoms.
func primaryImageComponents(g *bondgraph.Graph, primary []bool) *bondgraph.UnionFind {
	u := bondgraph.NewUnionFind(g.NodeCount())
	for sID := range g.Shifts() {
		for a := 0; a < g.AtomCount(); a++ {
			if !primary[a] {
				continue
			}
			from := g.NodeID(a, sID)
			g.ImageNeighbors(a, sID, func(nbAtom, nbShift int) {
				if primary[nbAtom] {
					u.Union(from, g.NodeID(nbAtom, nbShift))
				}
			})
		}
	}
	return u
}

// propagates reports whether direction d carries the primary network to its
// own images: some primary atom's home node connects to its image shifted by
// ±k along d alone, for any k within the shell.
func propagates(g *bondgraph.Graph, u *bondgraph.UnionFind, primary []bool, zeroID, d int) bool {
	for k := 1; k <= g.Shell(); k++ {
		for _, sign := range []int{1, -1} {
			var shift [3]int
			shift[d] = sign * k
			sID, ok := g.ShiftID(shift)
			if !ok {
				continue
			}
			for a := range primary {
				if !primary[a] {
					continue
				}
				if u.Connected(g.NodeID(a, zeroID), g.NodeID(a, sID)) {
					return true
				}
			}
		}
	}
	return false
}
