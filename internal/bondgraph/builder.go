package bondgraph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/blueraft/matid/internal/geometry"
	"github.com/blueraft/matid/internal/model"
)

// Build constructs the periodic bond graph for the given positions and
// covalent radii. Rows are scanned concurrently, one worker per atom row;
// each worker writes only its own row, so the result is identical to a
// serial scan regardless of scheduling. The scan is O(n^2 * shell^3) and
// dominates classification cost.
func Build(ctx context.Context, cell *geometry.Cell, positions []model.Vec3, radii []float64, cfg Config) (*Graph, error) {
	if len(radii) != len(positions) {
		return nil, fmt.Errorf("bondgraph: %d radii for %d positions", len(radii), len(positions))
	}
	if cfg.RadiusFactor <= 0 {
		cfg.RadiusFactor = DefaultConfig().RadiusFactor
	}
	if cfg.Shell < 1 {
		cfg.Shell = DefaultConfig().Shell
	}

	shifts := enumerateShifts(cell.Periodic, cfg.Shell)
	g := &Graph{
		cell:    cell,
		rows:    make([][]Bond, len(positions)),
		shell:   cfg.Shell,
		shifts:  shifts,
		shiftID: make(map[[3]int]int, len(shifts)),
	}
	for id, s := range shifts {
		g.shiftID[s] = id
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(cfg.workerCount())

	for i := range positions {
		grp.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			g.rows[i] = scanRow(cell, positions, radii, shifts, cfg.RadiusFactor, i)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, fmt.Errorf("bondgraph: build canceled: %w", err)
	}
	return g, nil
}

// scanRow finds every bonded image of atom i. Iteration order is fixed:
// target atoms ascending, then shifts in lexicographic order.
func scanRow(cell *geometry.Cell, positions []model.Vec3, radii []float64, shifts [][3]int, factor float64, i int) []Bond {
	var row []Bond
	for j := range positions {
		cutoff := factor * (radii[i] + radii[j])
		for _, t := range shifts {
			if i == j && t == [3]int{} {
				continue
			}
			d := geometry.ShiftDistance(cell, positions[i], positions[j], t)
			if d <= cutoff {
				row = append(row, Bond{To: j, Shift: t, Distance: d})
			}
		}
	}
	return row
}
