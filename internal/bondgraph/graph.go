package bondgraph

import (
	"github.com/blueraft/matid/internal/geometry"
)

// Graph is the periodic bond graph. It stores one adjacency row per home
// cell atom; the full image graph over the translation shell is derived on
// the fly, since an edge between images (i, s) and (j, s+t) exists exactly
// when atom i carries the bond (j, t).
type Graph struct {
	cell    *geometry.Cell
	rows    [][]Bond
	shell   int
	shifts  [][3]int
	shiftID map[[3]int]int
}

// AtomCount returns the number of home cell atoms.
func (g *Graph) AtomCount() int { return len(g.rows) }

// Bonds returns the half-edges leaving atom i. The returned slice is the
// graph's own storage and must not be mutated.
func (g *Graph) Bonds(i int) []Bond { return g.rows[i] }

// BondCount returns the number of undirected bonds within the shell.
func (g *Graph) BondCount() int {
	total := 0
	for _, row := range g.rows {
		total += len(row)
	}
	return total / 2
}

// Cell returns the cell the graph was built against.
func (g *Graph) Cell() *geometry.Cell { return g.cell }

// Shell returns the translation shell radius used during construction.
func (g *Graph) Shell() int { return g.shell }

// Shifts returns the full list of image translations inside the shell, in
// a fixed lexicographic order. Non-periodic directions contribute only the
// zero component. The zero shift is always present.
func (g *Graph) Shifts() [][3]int { return g.shifts }

// ShiftID maps a translation to its index in Shifts.
func (g *Graph) ShiftID(shift [3]int) (int, bool) {
	id, ok := g.shiftID[shift]
	return id, ok
}

// NodeID flattens an (atom, shift) image node to a dense identifier in
// [0, AtomCount*len(Shifts)).
func (g *Graph) NodeID(atom, shiftID int) int {
	return atom*len(g.shifts) + shiftID
}

// NodeCount returns the number of image nodes in the shell graph.
func (g *Graph) NodeCount() int { return len(g.rows) * len(g.shifts) }

// enumerateShifts lists every translation with components in [-shell,
// shell] on periodic axes and 0 elsewhere, ordered lexicographically so
// downstream iteration is reproducible.
func enumerateShifts(periodic [3]bool, shell int) [][3]int {
	axis := func(p bool) []int {
		if !p {
			return []int{0}
		}
		r := make([]int, 0, 2*shell+1)
		for v := -shell; v <= shell; v++ {
			r = append(r, v)
		}
		return r
	}
	xs, ys, zs := axis(periodic[0]), axis(periodic[1]), axis(periodic[2])

	out := make([][3]int, 0, len(xs)*len(ys)*len(zs))
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				out = append(out, [3]int{x, y, z})
			}
		}
	}
	return out
}

// addShift returns a+b and whether every component stays inside the shell.
func (g *Graph) addShift(a, b [3]int) ([3]int, bool) {
	var sum [3]int
	for d := 0; d < 3; d++ {
		sum[d] = a[d] + b[d]
		if sum[d] < -g.shell || sum[d] > g.shell {
			return sum, false
		}
	}
	return sum, true
}

// ImageNeighbors calls fn for every image node adjacent to (atom, shift)
// inside the shell. fn receives the neighbor's atom index and shift index.
func (g *Graph) ImageNeighbors(atom, shiftID int, fn func(atom, shiftID int)) {
	base := g.shifts[shiftID]
	for _, b := range g.rows[atom] {
		sum, ok := g.addShift(base, b.Shift)
		if !ok {
			continue
		}
		id, ok := g.shiftID[sum]
		if !ok {
			continue
		}
		fn(b.To, id)
	}
}
