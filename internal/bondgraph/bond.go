// Package bondgraph builds the periodic bond graph of a structure: nodes
// are atom images tagged with integer cell translations, edges connect
// images whose distance falls within the covalent bonding threshold. The
// graph spans the home cell plus a bounded shell of neighboring cells so
// that connectivity through periodic boundaries is explicit.
package bondgraph

import "runtime"

// Bond is a half-edge from one atom to the image of another. Shift is the
// integer cell translation applied to To; Distance is the Cartesian
// distance to that image. Every bond has a reciprocal half-edge stored on
// the other atom's row with the negated shift.
type Bond struct {
	To       int
	Shift    [3]int
	Distance float64
}

// Config holds the tunable parameters of graph construction. Values are
// threaded through explicitly so concurrent classifications never share
// mutable state.
type Config struct {
	// RadiusFactor scales the covalent radius sum that defines the bonding
	// threshold. Values slightly above 1 tolerate strained bonds.
	RadiusFactor float64
	// Shell is the number of neighboring cell layers searched in each
	// periodic direction.
	Shell int
	// Workers caps the number of concurrent row scans. Zero means one per
	// available CPU.
	Workers int
}

// DefaultConfig returns the standard construction parameters.
func DefaultConfig() Config {
	return Config{
		RadiusFactor: 1.1,
		Shell:        1,
		Workers:      0,
	}
}

func (c Config) workerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
