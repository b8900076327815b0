package classify

import (
	"github.com/blueraft/matid/internal/bondgraph"
	"github.com/blueraft/matid/internal/dimension"
	"github.com/blueraft/matid/internal/region"
	"github.com/blueraft/matid/internal/symmetry"
)

// Config aggregates the tunables of every pipeline stage. Tolerances are
// threaded through each call explicitly, never stored in process state, so
// concurrent classifications stay independent.
type Config struct {
	// Graph controls bond detection and the periodic image shell.
	Graph bondgraph.Config
	// Region controls outlier grouping.
	Region region.Config
	// Dimension controls the subtype thresholds.
	Dimension dimension.Config
	// Symmetry controls the external symmetry queries.
	Symmetry symmetry.Config
	// DefaultRadius substitutes for the covalent radius of unknown species.
	DefaultRadius float64
	// ExtentMargin pads the synthetic cell built for structures that declare
	// fewer than three lattice vectors, in ångströms.
	ExtentMargin float64
}

// DefaultConfig returns the standard pipeline parameters.
func DefaultConfig() Config {
	return Config{
		Graph:         bondgraph.DefaultConfig(),
		Region:        region.DefaultConfig(),
		Dimension:     dimension.DefaultConfig(),
		Symmetry:      symmetry.DefaultConfig(),
		DefaultRadius: 1.2,
		ExtentMargin:  5.0,
	}
}
