package symmetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrystalSystem(t *testing.T) {
	tests := []struct {
		name   string
		number int
		want   string
	}{
		{"triclinic low", 1, "triclinic"},
		{"triclinic high", 2, "triclinic"},
		{"monoclinic", 14, "monoclinic"},
		{"orthorhombic", 63, "orthorhombic"},
		{"tetragonal", 139, "tetragonal"},
		{"trigonal", 167, "trigonal"},
		{"hexagonal", 194, "hexagonal"},
		{"cubic low", 195, "cubic"},
		{"cubic high", 230, "cubic"},
		{"below range", 0, ""},
		{"above range", 231, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CrystalSystem(tt.number))
		})
	}
}

func TestBravaisLattice(t *testing.T) {
	tests := []struct {
		name          string
		number        int
		international string
		want          string
	}{
		{"primitive triclinic", 1, "P1", "aP"},
		{"face centered cubic", 225, "Fm-3m", "cF"},
		{"body centered cubic", 229, "Im-3m", "cI"},
		{"primitive hexagonal", 194, "P6_3/mmc", "hP"},
		{"rhombohedral", 167, "R-3c", "hR"},
		{"side centered collapses to S", 63, "Cmcm", "oS"},
		{"A centering collapses to S", 38, "Amm2", "oS"},
		{"body centered tetragonal", 139, "I4/mmm", "tI"},
		{"primitive monoclinic", 14, "P2_1/c", "mP"},
		{"invalid number", 0, "P1", ""},
		{"empty symbol", 225, "", ""},
		{"unknown centering", 225, "Xm-3m", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BravaisLattice(tt.number, tt.international))
		})
	}
}
