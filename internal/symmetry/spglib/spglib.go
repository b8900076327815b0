//go:build spglib

// Package spglib binds the C spglib library as a symmetry.Provider. The
// binding is compiled only under the spglib build tag so the default build
// needs no C toolchain; without the tag New returns a stub provider that
// reports ErrProviderUnavailable.
package spglib

/*
#cgo LDFLAGS: -lsymspg
#include <stdlib.h>
#include <spglib.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/blueraft/matid/internal/symmetry"
)

// Provider queries spglib through spg_get_dataset.
type Provider struct{}

// New returns the spglib-backed provider.
func New() *Provider { return &Provider{} }

// FindSymmetry runs one dataset query. The context is not consulted: the C
// call cannot be interrupted, so timeout enforcement stays with the caller.
func (p *Provider) FindSymmetry(_ context.Context, lattice [3][3]float64, fractional [][3]float64, species []int, tolerance float64) (*symmetry.Dataset, error) {
	n := len(fractional)
	if n == 0 {
		return nil, fmt.Errorf("spglib: no atoms")
	}
	if len(species) != n {
		return nil, fmt.Errorf("spglib: %d species for %d positions", len(species), n)
	}

	// spglib expects basis vectors as columns.
	var cLattice [3][3]C.double
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			cLattice[i][j] = C.double(lattice[j][i])
		}
	}

	cPos := make([][3]C.double, n)
	cTypes := make([]C.int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			cPos[i][j] = C.double(fractional[i][j])
		}
		cTypes[i] = C.int(species[i])
	}

	raw := C.spg_get_dataset(
		(*[3]C.double)(unsafe.Pointer(&cLattice[0])),
		(*[3]C.double)(unsafe.Pointer(&cPos[0])),
		&cTypes[0],
		C.int(n),
		C.double(tolerance),
	)
	if raw == nil {
		return nil, symmetry.ErrNoSymmetry
	}
	defer C.spg_free_dataset(raw)

	ds := &symmetry.Dataset{
		SpaceGroupNumber:    int(raw.spacegroup_number),
		InternationalSymbol: C.GoString(&raw.international_symbol[0]),
		HallNumber:          int(raw.hall_number),
		HallSymbol:          C.GoString(&raw.hall_symbol[0]),
		PointGroup:          C.GoString(&raw.pointgroup_symbol[0]),
		Choice:              C.GoString(&raw.choice[0]),
	}
	if ds.SpaceGroupNumber == 0 {
		return nil, symmetry.ErrNoSymmetry
	}

	// Column vectors back to rows.
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ds.PrimitiveLattice[j][i] = float64(raw.primitive_lattice[i][j])
		}
	}

	nOps := int(raw.n_operations)
	rotations := unsafe.Slice(raw.rotations, nOps)
	translations := unsafe.Slice(raw.translations, nOps)
	ds.Rotations = make([][3][3]int, nOps)
	ds.Translations = make([][3]float64, nOps)
	for k := 0; k < nOps; k++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				ds.Rotations[k][i][j] = int(rotations[k][i][j])
			}
			ds.Translations[k][i] = float64(translations[k][i])
		}
	}

	wyckoffs := unsafe.Slice(raw.wyckoffs, n)
	equivalents := unsafe.Slice(raw.equivalent_atoms, n)
	ds.Wyckoffs = make([]string, n)
	ds.EquivalentAtoms = make([]int, n)
	for i := 0; i < n; i++ {
		ds.Wyckoffs[i] = string(rune('a' + int(wyckoffs[i])))
		ds.EquivalentAtoms[i] = int(equivalents[i])
	}

	return ds, nil
}
