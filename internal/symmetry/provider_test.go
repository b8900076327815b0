package symmetry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDataset_IsChiral(t *testing.T) {
	identity := [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	inversion := [3][3]int{{-1, 0, 0}, {0, -1, 0}, {0, 0, -1}}
	properRotation := [3][3]int{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	mirror := [3][3]int{{1, 0, 0}, {0, 1, 0}, {0, 0, -1}}

	tests := []struct {
		name      string
		rotations [][3][3]int
		want      bool
	}{
		{"proper only", [][3][3]int{identity, properRotation}, true},
		{"with inversion", [][3][3]int{identity, inversion}, false},
		{"with mirror", [][3][3]int{identity, mirror}, false},
		{"no operations", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := &Dataset{Rotations: tt.rotations}
			assert.Equal(t, tt.want, ds.IsChiral())
		})
	}
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Tolerance: 1e-5, Elapsed: 2 * time.Second}
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "1e-05")
	assert.Contains(t, err.Error(), "2s")

	var typed *TimeoutError
	assert.True(t, errors.As(err, &typed))
}

func TestDatasetCache(t *testing.T) {
	c := newDatasetCache(time.Hour)
	defer c.Close()

	_, ok := c.get("missing")
	assert.False(t, ok)

	ds := IdentityDataset(2)
	c.set("key", ds)
	got, ok := c.get("key")
	assert.True(t, ok)
	assert.Same(t, ds, got)
	assert.Equal(t, 1, c.size())
}

func TestDatasetCache_Expiry(t *testing.T) {
	c := newDatasetCache(time.Millisecond)
	defer c.Close()

	c.set("key", IdentityDataset(1))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.get("key")
	assert.False(t, ok)
}
