package bondgraph

import "sort"

// WrappedComponents partitions the home cell atoms into connected
// components of the wrapped graph, where a bond joins two atoms no matter
// which image it reaches. Components are returned with members ascending,
// ordered by their smallest member.
func (g *Graph) WrappedComponents() [][]int {
	u := NewUnionFind(g.AtomCount())
	for i, row := range g.rows {
		for _, b := range row {
			u.Union(i, b.To)
		}
	}

	byRoot := make(map[int][]int)
	for i := 0; i < g.AtomCount(); i++ {
		r := u.Find(i)
		byRoot[r] = append(byRoot[r], i)
	}

	out := make([][]int, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Ints(members)
		out = append(out, members)
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}

// ImageComponents runs union-find over the full image node set of the
// shell graph and returns the find structure. Callers query connectivity
// between specific (atom, shift) nodes via NodeID.
func (g *Graph) ImageComponents() *UnionFind {
	u := NewUnionFind(g.NodeCount())
	for s := range g.shifts {
		for a := 0; a < g.AtomCount(); a++ {
			from := g.NodeID(a, s)
			g.ImageNeighbors(a, s, func(nbAtom, nbShift int) {
				u.Union(from, g.NodeID(nbAtom, nbShift))
			})
		}
	}
	return u
}
