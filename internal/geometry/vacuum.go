package geometry

import (
	"sort"

	"github.com/blueraft/matid/internal/model"
)

// DefaultVacuumThreshold is the smallest Cartesian gap in ångströms that
// counts as vacuum separating periodic copies.
const DefaultVacuumThreshold = 7.0

// VacuumDirections reports, for each lattice direction, whether a vacuum
// gap at least threshold wide separates the structure from its periodic
// images. Non-periodic directions count as vacuum by definition. Fractional
// positions are inspected along each axis with wrap-around, so a structure
// split across the cell boundary is still seen as one block.
func VacuumDirections(cell *Cell, frac []model.Vec3, threshold float64) [3]bool {
	var gaps [3]bool
	for axis := 0; axis < 3; axis++ {
		if !cell.Periodic[axis] {
			gaps[axis] = true
			continue
		}
		if len(frac) == 0 {
			gaps[axis] = true
			continue
		}
		coords := make([]float64, len(frac))
		for i, f := range frac {
			coords[i] = f[axis]
		}
		sort.Float64s(coords)

		// The gap from the last atom back around to the first closes the ring.
		maxGap := coords[0] - coords[len(coords)-1] + 1
		for i := 1; i < len(coords); i++ {
			if g := coords[i] - coords[i-1]; g > maxGap {
				maxGap = g
			}
		}
		gaps[axis] = maxGap*cell.Length(axis) >= threshold
	}
	return gaps
}

// Dimensions measures the structure's extent along each direction that has
// a vacuum gap, with covalent radii included. Directions without vacuum
// report -1: the structure fills those directions completely. The positions
// are doubled along every axis first so the gap to the neighboring periodic
// copy is visible inside one coordinate span.
func Dimensions(cell *Cell, frac []model.Vec3, radii []float64, vacuum [3]bool) [3]float64 {
	dims := [3]float64{-1, -1, -1}
	if len(frac) == 0 {
		return dims
	}

	// Doubled cell: each original atom appears at (f+n)/2 for n in {0,1}^3.
	type entry struct {
		coord [3]float64
		radius float64
	}
	doubled := make([]entry, 0, 8*len(frac))
	for i, f := range frac {
		for nx := 0; nx < 2; nx++ {
			for ny := 0; ny < 2; ny++ {
				for nz := 0; nz < 2; nz++ {
					doubled = append(doubled, entry{
						coord:  [3]float64{(f[0] + float64(nx)) / 2, (f[1] + float64(ny)) / 2, (f[2] + float64(nz)) / 2},
						radius: radii[i],
					})
				}
			}
		}
	}

	for axis := 0; axis < 3; axis++ {
		if !vacuum[axis] {
			continue
		}
		doubledLen := 2 * cell.Length(axis)
		var set IntervalSet
		for _, e := range doubled {
			rFrac := e.radius / doubledLen
			set.Add(e.coord[axis]-rFrac, e.coord[axis]+rFrac)
		}
		gap := set.MaxGap()
		if gap < 0 {
			gap = 0
		}
		dims[axis] = cell.Length(axis) - gap*doubledLen
	}
	return dims
}

// Thickness returns the largest measured extent among the vacuum
// directions, or -1 when no direction has vacuum. For a slab periodic in
// two directions this is the slab thickness.
func Thickness(cell *Cell, frac []model.Vec3, radii []float64, vacuum [3]bool) float64 {
	dims := Dimensions(cell, frac, radii, vacuum)
	max := -1.0
	for axis := 0; axis < 3; axis++ {
		if vacuum[axis] && dims[axis] > max {
			max = dims[axis]
		}
	}
	return max
}

// LargestGap finds the widest empty stretch between fractional coordinates
// on one axis, treating the axis as a ring: the gap between the last and
// first coordinate across the cell boundary competes too. It returns the
// gap's start coordinate and width in fractional units; the width for a
// single coordinate is the full ring. Zero coordinates yield a zero gap.
func LargestGap(coords []float64) (start, width float64) {
	if len(coords) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), coords...)
	sort.Float64s(sorted)

	n := len(sorted)
	start = sorted[n-1]
	width = sorted[0] - sorted[n-1] + 1
	for i := 1; i < n; i++ {
		if g := sorted[i] - sorted[i-1]; g > width {
			start, width = sorted[i-1], g
		}
	}
	return start, width
}
