// Package region splits a structure into its primary connected region and
// outlier groups. The primary region is the dominant bond network; atoms
// unreachable from it (adsorbates, interstitials, stray atoms) are grouped
// into spatially coherent sub-regions by a secondary clustering pass.
package region

import (
	"errors"
	"fmt"
	"sort"

	"github.com/blueraft/matid/internal/bondgraph"
	"github.com/blueraft/matid/internal/cluster"
	"github.com/blueraft/matid/internal/geometry"
	"github.com/blueraft/matid/internal/model"
)

// ErrEmptyPrimaryRegion indicates that no primary region could be selected.
var ErrEmptyPrimaryRegion = errors.New("region: empty primary region")

// EmptyPrimaryRegionError reports a structure with no atoms to anchor a
// primary region.
type EmptyPrimaryRegionError struct {
	AtomCount int
}

func (e *EmptyPrimaryRegionError) Error() string {
	return fmt.Sprintf("region: no primary region selectable among %d atoms", e.AtomCount)
}

func (e *EmptyPrimaryRegionError) Unwrap() error { return ErrEmptyPrimaryRegion }

// Config holds the outlier grouping parameters.
type Config struct {
	// NeighborRadius is the clustering radius applied to radii-adjusted
	// distances between outlier atoms.
	NeighborRadius float64
	// MinClusterSize is the minimum neighborhood size for a core point in
	// the outlier clustering. Points below it form singleton groups.
	MinClusterSize int
	// DefaultRadius substitutes for the covalent radius of unknown species.
	DefaultRadius float64
}

// DefaultConfig returns the standard separation parameters.
func DefaultConfig() Config {
	return Config{
		NeighborRadius: cluster.DefaultEps,
		MinClusterSize: cluster.DefaultMinPoints,
		DefaultRadius:  1.2,
	}
}

// Separate labels every atom as primary or outlier. The primary region is
// the largest wrapped component of the bond graph; ties go to the component
// with the lowest mean atomic number, then to the one containing the lowest
// atom index. Remaining atoms are clustered into coherent outlier groups.
func Separate(g *bondgraph.Graph, s *model.Structure, cfg Config) (model.RegionAssignment, error) {
	if s.AtomCount() == 0 {
		return model.RegionAssignment{}, &EmptyPrimaryRegionError{AtomCount: 0}
	}

	comps := g.WrappedComponents()
	if len(comps) == 0 {
		return model.RegionAssignment{}, &EmptyPrimaryRegionError{AtomCount: s.AtomCount()}
	}
	primary := comps[pickPrimary(comps, s.Species)]

	labels := make([]model.Region, s.AtomCount())
	for i := range labels {
		labels[i] = model.RegionOutlier
	}
	for _, i := range primary {
		labels[i] = model.RegionPrimary
	}

	var outliers []int
	for i, l := range labels {
		if l == model.RegionOutlier {
			outliers = append(outliers, i)
		}
	}

	return model.RegionAssignment{
		Labels:        labels,
		OutlierGroups: groupOutliers(g.Cell(), s, outliers, cfg),
	}, nil
}

// pickPrimary returns the index of the winning component. Components arrive
// ordered by smallest member, so keeping the earlier candidate on a full tie
// implements the lowest-index rule.
func pickPrimary(comps [][]int, species []string) int {
	best := 0
	bestSize := len(comps[0])
	bestMean := meanAtomicNumber(comps[0], species)
	for i := 1; i < len(comps); i++ {
		size := len(comps[i])
		if size < bestSize {
			continue
		}
		mean := meanAtomicNumber(comps[i], species)
		if size > bestSize || mean < bestMean {
			best, bestSize, bestMean = i, size, mean
		}
	}
	return best
}

// meanAtomicNumber averages the atomic numbers of a component's members.
// Unknown species count as zero, which biases ties toward synthetic atoms;
// the ordering only needs to be stable, not chemically meaningful.
func meanAtomicNumber(members []int, species []string) float64 {
	if len(members) == 0 {
		return 0
	}
	sum := 0
	for _, i := range members {
		z, _ := geometry.AtomicNumber(species[i])
		sum += z
	}
	return float64(sum) / float64(len(members))
}

// groupOutliers clusters the outlier atoms into coherent groups using
// radii-adjusted minimum-image distances, so an adsorbed molecule stays one
// group. Noise points become singleton groups. Groups are ordered by their
// smallest original index with members ascending.
func groupOutliers(cell *geometry.Cell, s *model.Structure, outliers []int, cfg Config) [][]int {
	if len(outliers) == 0 {
		return nil
	}

	positions := make([]model.Vec3, len(outliers))
	species := make([]string, len(outliers))
	for k, i := range outliers {
		positions[k] = s.Positions[i]
		species[k] = s.Species[i]
	}
	radii, _ := geometry.Radii(species, cfg.DefaultRadius)

	dist := cluster.AdjustForRadii(geometry.DistanceMatrix(cell, positions), radii)
	labels := cluster.DBSCAN(dist, cfg.NeighborRadius, cfg.MinClusterSize)

	groups := cluster.Groups(labels)
	for k, l := range labels {
		if l == cluster.Noise {
			groups = append(groups, []int{k})
		}
	}

	out := make([][]int, len(groups))
	for gi, grp := range groups {
		mapped := make([]int, len(grp))
		for k, local := range grp {
			mapped[k] = outliers[local]
		}
		out[gi] = mapped
	}
	sort.Slice(out, func(a, b int) bool { return out[a][0] < out[b][0] })
	return out
}
