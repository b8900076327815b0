package geometry

import (
	"math"

	"github.com/blueraft/matid/internal/model"
)

// shiftRange returns the integer translations searched along one axis: the
// zero shift for non-periodic axes, and -1..1 for periodic ones. Searching
// only the adjacent images implements the minimum-image convention for cells
// whose basis vectors are not pathologically skewed.
func shiftRange(periodic bool) []int {
	if periodic {
		return []int{-1, 0, 1}
	}
	return []int{0}
}

// MICDisplacement returns the minimum-image displacement from a to b
// together with the integer cell translation applied to b. On non-periodic
// axes the raw Cartesian difference is kept; on periodic axes the adjacent
// images of b are searched for the shortest vector.
func MICDisplacement(cell *Cell, a, b model.Vec3) (model.Vec3, [3]int) {
	best := Sub(b, a)
	bestShift := [3]int{}
	bestNorm := Norm(best)

	for _, sx := range shiftRange(cell.Periodic[0]) {
		for _, sy := range shiftRange(cell.Periodic[1]) {
			for _, sz := range shiftRange(cell.Periodic[2]) {
				if sx == 0 && sy == 0 && sz == 0 {
					continue
				}
				shift := [3]int{sx, sy, sz}
				d := Sub(cell.Translate(b, shift), a)
				if n := Norm(d); n < bestNorm {
					best, bestShift, bestNorm = d, shift, n
				}
			}
		}
	}
	return best, bestShift
}

// MICDistance returns the minimum-image distance between a and b.
func MICDistance(cell *Cell, a, b model.Vec3) float64 {
	d, _ := MICDisplacement(cell, a, b)
	return Norm(d)
}

// Distances returns the minimum-image distance from a reference position to
// each position in the list.
func Distances(cell *Cell, from model.Vec3, to []model.Vec3) []float64 {
	out := make([]float64, len(to))
	for i, p := range to {
		out[i] = MICDistance(cell, from, p)
	}
	return out
}

// DistanceMatrix returns the symmetric minimum-image distance matrix of the
// given positions. The diagonal is zero.
func DistanceMatrix(cell *Cell, positions []model.Vec3) [][]float64 {
	n := len(positions)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := MICDistance(cell, positions[i], positions[j])
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// ShiftDistance returns the distance from a to the image of b translated by
// the given integer cell shift. Unlike MICDistance this evaluates one
// specific image, which is what bond scanning over an image shell needs.
func ShiftDistance(cell *Cell, a, b model.Vec3, shift [3]int) float64 {
	return Norm(Sub(cell.Translate(b, shift), a))
}

// BoundingExtent returns the largest side of the axis-aligned bounding box
// of the positions, plus the given margin on both ends. It sizes synthetic
// cell vectors for structures that declare fewer than three.
func BoundingExtent(positions []model.Vec3, margin float64) float64 {
	if len(positions) == 0 {
		return 2 * margin
	}
	lo := positions[0]
	hi := positions[0]
	for _, p := range positions[1:] {
		for d := 0; d < 3; d++ {
			lo[d] = math.Min(lo[d], p[d])
			hi[d] = math.Max(hi[d], p[d])
		}
	}
	extent := 0.0
	for d := 0; d < 3; d++ {
		extent = math.Max(extent, hi[d]-lo[d])
	}
	return extent + 2*margin
}
