// Package testutil provides shared structure fixtures for tests: small
// molecules and reference crystals with realistic geometry. Bond lengths are
// chosen to sit safely inside the covalent bonding thresholds the analysis
// uses, so the fixtures behave like real data rather than idealized points.
package testutil

import (
	"fmt"

	"github.com/blueraft/matid/internal/model"
)

// must returns s or panics. Fixture geometry is fixed at compile time, so a
// validation failure is a bug in the fixture itself.
func must(s *model.Structure, err error) *model.Structure {
	if err != nil {
		panic(fmt.Sprintf("testutil: invalid fixture: %v", err))
	}
	return s
}

// Nitrogen returns an isolated N2 molecule with no declared lattice. The
// 1.10 Å bond is well inside the N-N bonding threshold.
func Nitrogen() *model.Structure {
	return must(model.NewStructure(
		[]string{"N", "N"},
		[]model.Vec3{{0, 0, 0}, {1.10, 0, 0}},
	))
}

// SingleAtom returns one atom of the given species with no declared lattice.
func SingleAtom(species string) *model.Structure {
	return must(model.NewStructure([]string{species}, []model.Vec3{{0, 0, 0}}))
}

// Water returns an H2O molecule centered in a 10 Å cubic cell with all three
// directions declared periodic. The cell is large enough that nothing bonds
// to its own image, so the measured dimensionality stays zero despite the
// declared periodicity.
func Water() *model.Structure {
	s := must(model.NewStructure(
		[]string{"O", "H", "H"},
		[]model.Vec3{{5, 5, 5}, {5.7572, 5.5861, 5}, {4.2428, 5.5861, 5}},
	))
	return must(s.WithLattice(
		[]model.Vec3{{10, 0, 0}, {0, 10, 0}, {0, 0, 10}},
		[]bool{true, true, true},
	))
}

// CarbonChain returns a single-atom carbon chain repeating every 1.5 Å along
// x, with 15 Å of declared-periodic vacuum along y and z. Its only bonds are
// between an atom and its own translated images.
func CarbonChain() *model.Structure {
	s := must(model.NewStructure([]string{"C"}, []model.Vec3{{0, 7.5, 7.5}}))
	return must(s.WithLattice(
		[]model.Vec3{{1.5, 0, 0}, {0, 15, 0}, {0, 0, 15}},
		[]bool{true, true, true},
	))
}

// Graphene returns the two-atom graphene primitive cell (C-C 1.42 Å) with
// 20 Å of vacuum along the third, periodically declared direction.
func Graphene() *model.Structure {
	s := must(model.NewStructure(
		[]string{"C", "C"},
		[]model.Vec3{{0, 1.42, 10}, {1.2298, 0.71, 10}},
	))
	return must(s.WithLattice(
		[]model.Vec3{{2.4595, 0, 0}, {-1.2298, 2.13, 0}, {0, 0, 20}},
		[]bool{true, true, true},
	))
}

// GrapheneWithAdsorbate returns a 2x2 graphene supercell with an N2 molecule
// floating 3 Å above the sheet: a primary network of eight carbons plus one
// coherent two-atom outlier group.
func GrapheneWithAdsorbate() *model.Structure {
	sheet := Repeat(Graphene(), [3]int{2, 2, 1})
	species := append(append([]string(nil), sheet.Species...), "N", "N")
	positions := append(append([]model.Vec3(nil), sheet.Positions...),
		model.Vec3{1.23, 1.42, 13},
		model.Vec3{2.33, 1.42, 13},
	)
	s := must(model.NewStructure(species, positions))
	return must(s.WithLattice(sheet.Lattice, sheet.Periodic))
}

// RockSalt returns the conventional NaCl cell (a = 5.64 Å, space group 225).
func RockSalt() *model.Structure {
	const a = 5.64
	frac := []model.Vec3{
		{0, 0, 0}, {0.5, 0.5, 0}, {0.5, 0, 0.5}, {0, 0.5, 0.5},
		{0.5, 0, 0}, {0, 0.5, 0}, {0, 0, 0.5}, {0.5, 0.5, 0.5},
	}
	species := []string{"Na", "Na", "Na", "Na", "Cl", "Cl", "Cl", "Cl"}
	positions := make([]model.Vec3, len(frac))
	for i, f := range frac {
		positions[i] = model.Vec3{f[0] * a, f[1] * a, f[2] * a}
	}
	s := must(model.NewStructure(species, positions))
	return must(s.WithLattice(
		[]model.Vec3{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		[]bool{true, true, true},
	))
}

// RockSaltWithFloatingAtom returns the NaCl cell plus one helium atom parked
// in an interstitial void, too far from every neighbor to bond: a bulk
// crystal with a single-atom outlier.
func RockSaltWithFloatingAtom() *model.Structure {
	base := RockSalt()
	species := append(append([]string(nil), base.Species...), "He")
	positions := append(append([]model.Vec3(nil), base.Positions...), model.Vec3{1.41, 1.41, 1.41})
	s := must(model.NewStructure(species, positions))
	return must(s.WithLattice(base.Lattice, base.Periodic))
}

// DiamondSilicon returns the conventional diamond-structure silicon cell
// (a = 5.4307 Å, space group 227).
func DiamondSilicon() *model.Structure {
	const a = 5.4307
	frac := []model.Vec3{
		{0, 0, 0}, {0, 0.5, 0.5}, {0.5, 0, 0.5}, {0.5, 0.5, 0},
		{0.25, 0.25, 0.25}, {0.25, 0.75, 0.75}, {0.75, 0.25, 0.75}, {0.75, 0.75, 0.25},
	}
	species := make([]string, len(frac))
	positions := make([]model.Vec3, len(frac))
	for i, f := range frac {
		species[i] = "Si"
		positions[i] = model.Vec3{f[0] * a, f[1] * a, f[2] * a}
	}
	s := must(model.NewStructure(species, positions))
	return must(s.WithLattice(
		[]model.Vec3{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		[]bool{true, true, true},
	))
}

// BCCIronSlab returns a bcc(100) iron slab with the given number of layers,
// one atom per layer in a 2.87 Å square surface cell and 8 Å of vacuum on
// both sides along z. All three directions are declared periodic, the way
// slab calculations usually arrive.
func BCCIronSlab(layers int) *model.Structure {
	const a = 2.87
	const spacing = a / 2
	const vacuum = 8.0

	species := make([]string, layers)
	positions := make([]model.Vec3, layers)
	for l := 0; l < layers; l++ {
		species[l] = "Fe"
		offset := 0.0
		if l%2 == 1 {
			offset = a / 2
		}
		positions[l] = model.Vec3{offset, offset, vacuum + float64(l)*spacing}
	}
	height := 2*vacuum + float64(layers-1)*spacing

	s := must(model.NewStructure(species, positions))
	return must(s.WithLattice(
		[]model.Vec3{{a, 0, 0}, {0, a, 0}, {0, 0, height}},
		[]bool{true, true, true},
	))
}

// SimpleCubic returns a one-atom cubic lattice of the given species and
// lattice constant, periodically declared in all three directions.
func SimpleCubic(species string, a float64) *model.Structure {
	s := must(model.NewStructure([]string{species}, []model.Vec3{{0, 0, 0}}))
	return must(s.WithLattice(
		[]model.Vec3{{a, 0, 0}, {0, a, 0}, {0, 0, a}},
		[]bool{true, true, true},
	))
}

// Repeat replicates a fully latticed structure reps[d] times along each
// declared lattice vector, scaling the vectors accordingly. Atom order is
// cell-major: all atoms of the first cell, then the next, with cells visited
// in row-major order over (x, y, z) repeats.
func Repeat(s *model.Structure, reps [3]int) *model.Structure {
	if len(s.Lattice) != 3 {
		panic("testutil: Repeat needs a structure with three lattice vectors")
	}
	for d := 0; d < 3; d++ {
		if reps[d] < 1 {
			panic("testutil: Repeat counts must be positive")
		}
	}

	n := s.AtomCount()
	total := n * reps[0] * reps[1] * reps[2]
	species := make([]string, 0, total)
	positions := make([]model.Vec3, 0, total)
	for ix := 0; ix < reps[0]; ix++ {
		for iy := 0; iy < reps[1]; iy++ {
			for iz := 0; iz < reps[2]; iz++ {
				for i := 0; i < n; i++ {
					p := s.Positions[i]
					for d, m := range []int{ix, iy, iz} {
						p[0] += float64(m) * s.Lattice[d][0]
						p[1] += float64(m) * s.Lattice[d][1]
						p[2] += float64(m) * s.Lattice[d][2]
					}
					species = append(species, s.Species[i])
					positions = append(positions, p)
				}
			}
		}
	}

	lattice := make([]model.Vec3, 3)
	for d := 0; d < 3; d++ {
		r := float64(reps[d])
		lattice[d] = model.Vec3{s.Lattice[d][0] * r, s.Lattice[d][1] * r, s.Lattice[d][2] * r}
	}
	out := must(model.NewStructure(species, positions))
	return must(out.WithLattice(lattice, s.Periodic))
}
