package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCovalentRadius(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"H", 0.31},
		{"C", 0.76},
		{"Si", 1.11},
		{"Cu", 1.32},
		{"Au", 1.36},
		{"Cm", 1.69},
	}
	for _, tt := range tests {
		r, ok := CovalentRadius(tt.symbol)
		assert.True(t, ok, "symbol %s", tt.symbol)
		assert.InDelta(t, tt.want, r, 1e-9, "symbol %s", tt.symbol)
	}

	_, ok := CovalentRadius("Xx")
	assert.False(t, ok)
	_, ok = CovalentRadius("")
	assert.False(t, ok)
}

func TestAtomicNumberSymbolRoundTrip(t *testing.T) {
	for _, symbol := range []string{"H", "He", "C", "Fe", "U", "Cm"} {
		z, ok := AtomicNumber(symbol)
		assert.True(t, ok)
		assert.Equal(t, symbol, Symbol(z))
	}

	assert.Equal(t, "", Symbol(0))
	assert.Equal(t, "", Symbol(200))
}

func TestAtomicMass(t *testing.T) {
	m, ok := AtomicMass("O")
	assert.True(t, ok)
	assert.InDelta(t, 15.999, m, 1e-3)

	_, ok = AtomicMass("Qq")
	assert.False(t, ok)
}

func TestRadii_FallbackForUnknown(t *testing.T) {
	radii, unknown := Radii([]string{"C", "Xx", "H", "Yy"}, 1.5)
	assert.Equal(t, []int{1, 3}, unknown)
	assert.InDelta(t, 0.76, radii[0], 1e-9)
	assert.InDelta(t, 1.5, radii[1], 1e-9)
	assert.InDelta(t, 0.31, radii[2], 1e-9)
	assert.InDelta(t, 1.5, radii[3], 1e-9)
}

func TestAtomicNumbers(t *testing.T) {
	numbers, unknown := AtomicNumbers([]string{"Na", "Cl", "Zz"})
	assert.Equal(t, []int{11, 17, 0}, numbers)
	assert.Equal(t, []int{2}, unknown)
}
