// Package cluster groups atoms by spatial proximity. It implements DBSCAN
// over a precomputed distance matrix, which is how outlier atoms are
// gathered into coherent sub-regions.
package cluster

import "sort"

// Noise is the label assigned to points that belong to no cluster.
const Noise = -1

// DefaultEps is the default neighborhood radius in ångströms, applied to
// radii-adjusted distances.
const DefaultEps = 1.35

// DefaultMinPoints is the default minimum neighborhood size for a core
// point. With 1 every point is core and clustering reduces to transitive
// closure over eps-neighborhoods, so no point is ever noise.
const DefaultMinPoints = 1

// DBSCAN clusters points given their pairwise distances. It returns one
// label per point; labels are assigned in order of first discovery, so the
// output is deterministic for identical input. Points whose neighborhood
// is smaller than minPts and that are not reachable from any core point
// receive the Noise label.
func DBSCAN(dist [][]float64, eps float64, minPts int) []int {
	n := len(dist)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	if minPts < 1 {
		minPts = 1
	}

	next := 0
	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := neighborhood(dist, i, eps)
		if len(neighbors) < minPts {
			continue
		}

		labels[i] = next
		queue := neighbors
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == Noise {
				labels[j] = next
			}
			if visited[j] {
				continue
			}
			visited[j] = true
			jn := neighborhood(dist, j, eps)
			if len(jn) >= minPts {
				queue = append(queue, jn...)
			}
		}
		next++
	}
	return labels
}

// neighborhood returns the indices within eps of point i, including i
// itself.
func neighborhood(dist [][]float64, i int, eps float64) []int {
	var out []int
	for j, d := range dist[i] {
		if d <= eps {
			out = append(out, j)
		}
	}
	return out
}

// Groups converts labels into explicit index groups. Noise points are
// dropped. Groups are ordered by their smallest member and members are
// ascending, so the grouping is stable across runs.
func Groups(labels []int) [][]int {
	byLabel := make(map[int][]int)
	for i, l := range labels {
		if l == Noise {
			continue
		}
		byLabel[l] = append(byLabel[l], i)
	}

	groups := make([][]int, 0, len(byLabel))
	for _, g := range byLabel {
		sort.Ints(g)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(a, b int) bool { return groups[a][0] < groups[b][0] })
	return groups
}

// AdjustForRadii subtracts both atoms' covalent radii from each pairwise
// distance, clamping at zero. Clustering on the adjusted matrix treats two
// large touching atoms the same as two small touching atoms.
func AdjustForRadii(dist [][]float64, radii []float64) [][]float64 {
	out := make([][]float64, len(dist))
	for i := range dist {
		out[i] = make([]float64, len(dist[i]))
		for j := range dist[i] {
			if i == j {
				continue
			}
			v := dist[i][j] - radii[i] - radii[j]
			if v < 0 {
				v = 0
			}
			out[i][j] = v
		}
	}
	return out
}
