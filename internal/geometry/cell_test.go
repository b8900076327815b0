package geometry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueraft/matid/internal/model"
)

func TestNewCell_Degenerate(t *testing.T) {
	tests := []struct {
		name  string
		basis [3]model.Vec3
	}{
		{
			name:  "zero cell",
			basis: [3]model.Vec3{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		},
		{
			name:  "coplanar vectors",
			basis: [3]model.Vec3{{1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		},
		{
			name:  "duplicate vectors",
			basis: [3]model.Vec3{{2, 0, 0}, {2, 0, 0}, {0, 0, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCell(tt.basis, [3]bool{true, true, true})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerateCell))

			var dce *DegenerateCellError
			require.True(t, errors.As(err, &dce))
			assert.Less(t, dce.Volume, MinCellVolume)
		})
	}
}

func TestCell_Volume(t *testing.T) {
	cell, err := NewCell([3]model.Vec3{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}}, [3]bool{true, true, true})
	require.NoError(t, err)
	assert.InDelta(t, 24.0, cell.Volume(), 1e-12)
}

func TestCell_FractionalRoundTrip(t *testing.T) {
	// Triclinic-ish basis to exercise the full inverse.
	cell, err := NewCell([3]model.Vec3{{3.1, 0.2, 0}, {-1.2, 2.9, 0.1}, {0.3, 0, 7.5}}, [3]bool{true, true, true})
	require.NoError(t, err)

	p := model.Vec3{1.7, 2.2, 3.9}
	f := cell.ToFractional(p)
	back := cell.ToCartesian(f)
	for d := 0; d < 3; d++ {
		assert.InDelta(t, p[d], back[d], 1e-10)
	}
}

func TestCell_WrapFractional(t *testing.T) {
	cell, err := NewCell([3]model.Vec3{{5, 0, 0}, {0, 5, 0}, {0, 0, 5}}, [3]bool{true, true, false})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   model.Vec3
		want model.Vec3
	}{
		{"inside stays", model.Vec3{0.25, 0.5, 0.75}, model.Vec3{0.25, 0.5, 0.75}},
		{"negative wraps", model.Vec3{-0.25, 0.5, 0}, model.Vec3{0.75, 0.5, 0}},
		{"above one wraps", model.Vec3{1.25, 0.5, 0}, model.Vec3{0.25, 0.5, 0}},
		{"near one snaps to zero", model.Vec3{0.9999999, 0.5, 0}, model.Vec3{0, 0.5, 0}},
		{"near zero snaps to zero", model.Vec3{1e-7, 0.5, 0}, model.Vec3{0, 0.5, 0}},
		{"non-periodic passes through", model.Vec3{0.5, 0.5, 1.8}, model.Vec3{0.5, 0.5, 1.8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cell.WrapFractional(tt.in)
			for d := 0; d < 3; d++ {
				assert.InDelta(t, tt.want[d], got[d], 1e-9)
			}
		})
	}
}

func TestCell_Translate(t *testing.T) {
	cell, err := NewCell([3]model.Vec3{{2, 0, 0}, {0, 3, 0}, {0, 0, 4}}, [3]bool{true, true, true})
	require.NoError(t, err)

	p := cell.Translate(model.Vec3{1, 1, 1}, [3]int{1, -1, 2})
	assert.Equal(t, model.Vec3{3, -2, 9}, p)
}

func TestCompleteBasis(t *testing.T) {
	t.Run("no declared vectors", func(t *testing.T) {
		basis, flags := CompleteBasis(nil, nil, 10)
		assert.Equal(t, [3]bool{false, false, false}, flags)
		cell, err := NewCell(basis, flags)
		require.NoError(t, err)
		assert.InDelta(t, 1000.0, cell.Volume(), 1e-9)
	})

	t.Run("one declared vector", func(t *testing.T) {
		basis, flags := CompleteBasis([]model.Vec3{{0, 0, 4.2}}, []bool{true}, 8)
		assert.Equal(t, [3]bool{true, false, false}, flags)
		cell, err := NewCell(basis, flags)
		require.NoError(t, err)
		// Completed vectors are orthogonal to the declared one.
		assert.InDelta(t, 0.0, dot(basis[0], basis[1]), 1e-9)
		assert.InDelta(t, 0.0, dot(basis[0], basis[2]), 1e-9)
		assert.InDelta(t, 8.0, Norm(basis[1]), 1e-9)
		assert.Greater(t, cell.Volume(), 0.0)
	})

	t.Run("two declared vectors", func(t *testing.T) {
		declared := []model.Vec3{{2.46, 0, 0}, {-1.23, 2.13, 0}}
		basis, flags := CompleteBasis(declared, []bool{true, true}, 15)
		assert.Equal(t, [3]bool{true, true, false}, flags)
		assert.InDelta(t, 0.0, dot(basis[0], basis[2]), 1e-9)
		assert.InDelta(t, 0.0, dot(basis[1], basis[2]), 1e-9)
		assert.InDelta(t, 15.0, Norm(basis[2]), 1e-9)
	})
}

func dot(a, b model.Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}
