package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueraft/matid/internal/model"
)

// The reference layout: two atoms inside a 7 ångström cubic cell, one a full
// cell length away along z, one at 6 along x. Periodicity decides whether
// those map back to short image distances.
func micFixture(t *testing.T, periodic [3]bool) (*Cell, model.Vec3, []model.Vec3) {
	t.Helper()
	cell, err := NewCell([3]model.Vec3{{7, 0, 0}, {0, 7, 0}, {0, 0, 7}}, periodic)
	require.NoError(t, err)
	return cell, model.Vec3{0, 0, 0}, []model.Vec3{{0, 0, 7}, {6, 0, 0}}
}

func TestMICDistance_NonPeriodic(t *testing.T) {
	cell, from, to := micFixture(t, [3]bool{false, false, false})
	d := Distances(cell, from, to)
	assert.InDelta(t, 7.0, d[0], 1e-12)
	assert.InDelta(t, 6.0, d[1], 1e-12)
}

func TestMICDistance_FullyPeriodic(t *testing.T) {
	cell, from, to := micFixture(t, [3]bool{true, true, true})
	d := Distances(cell, from, to)
	assert.InDelta(t, 0.0, d[0], 1e-12)
	assert.InDelta(t, 1.0, d[1], 1e-12)
}

func TestMICDistance_MixedPeriodicity(t *testing.T) {
	cell, from, to := micFixture(t, [3]bool{false, true, true})
	d := Distances(cell, from, to)
	assert.InDelta(t, 0.0, d[0], 1e-12)
	assert.InDelta(t, 6.0, d[1], 1e-12)
}

func TestMICDisplacement_ReportsShift(t *testing.T) {
	cell, from, to := micFixture(t, [3]bool{true, true, true})

	disp, shift := MICDisplacement(cell, from, to[1])
	assert.Equal(t, [3]int{-1, 0, 0}, shift)
	assert.InDelta(t, -1.0, disp[0], 1e-12)
	assert.InDelta(t, 0.0, disp[1], 1e-12)
	assert.InDelta(t, 0.0, disp[2], 1e-12)
}

func TestMICDisplacement_SkewedCell(t *testing.T) {
	// Hexagonal graphene cell. The two sublattice sites sit 1.42 apart
	// through the closest image.
	cell, err := NewCell([3]model.Vec3{
		{2.4595121467478055, 0, 0},
		{-1.2297560733739028, 2.13, 0},
		{0, 0, 20},
	}, [3]bool{true, true, false})
	require.NoError(t, err)

	a := cell.ToCartesian(model.Vec3{1.0 / 3.0, 2.0 / 3.0, 0.5})
	b := cell.ToCartesian(model.Vec3{2.0 / 3.0, 1.0 / 3.0, 0.5})
	assert.InDelta(t, 1.42, MICDistance(cell, a, b), 0.01)
}

func TestDistanceMatrix(t *testing.T) {
	cell, err := NewCell([3]model.Vec3{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}}, [3]bool{true, true, true})
	require.NoError(t, err)

	positions := []model.Vec3{{0, 0, 0}, {1, 0, 0}, {9.5, 0, 0}}
	m := DistanceMatrix(cell, positions)

	for i := range m {
		assert.Zero(t, m[i][i])
		for j := range m {
			assert.InDelta(t, m[j][i], m[i][j], 1e-12)
		}
	}
	assert.InDelta(t, 1.0, m[0][1], 1e-12)
	// 9.5 wraps to -0.5 from the origin.
	assert.InDelta(t, 0.5, m[0][2], 1e-12)
	assert.InDelta(t, 1.5, m[1][2], 1e-12)
}

func TestShiftDistance(t *testing.T) {
	cell, err := NewCell([3]model.Vec3{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}, [3]bool{true, true, true})
	require.NoError(t, err)

	a := model.Vec3{0, 0, 0}
	b := model.Vec3{1, 0, 0}
	assert.InDelta(t, 1.0, ShiftDistance(cell, a, b, [3]int{0, 0, 0}), 1e-12)
	assert.InDelta(t, 3.0, ShiftDistance(cell, a, b, [3]int{-1, 0, 0}), 1e-12)
	assert.InDelta(t, 5.0, ShiftDistance(cell, a, b, [3]int{1, 0, 0}), 1e-12)
}

func TestBoundingExtent(t *testing.T) {
	positions := []model.Vec3{{0, 0, 0}, {3, 1, 0}, {1, 5, 2}}
	assert.InDelta(t, 5.0+2*2.5, BoundingExtent(positions, 2.5), 1e-12)
	assert.InDelta(t, 6.0, BoundingExtent(nil, 3), 1e-12)
}
