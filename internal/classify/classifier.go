// Package classify sequences the classification pipeline: structure
// validation, bond graph construction, region separation, dimensionality
// measurement and symmetry analysis, assembled into one immutable result.
// Declared periodicity is treated as a hint; measured connectivity decides
// the final class.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/blueraft/matid/internal/bondgraph"
	"github.com/blueraft/matid/internal/dimension"
	"github.com/blueraft/matid/internal/geometry"
	"github.com/blueraft/matid/internal/model"
	"github.com/blueraft/matid/internal/region"
	"github.com/blueraft/matid/internal/symmetry"
)

// Classifier runs the classification pipeline. Safe for concurrent use;
// every call works on its own graph and region data.
type Classifier struct {
	cfg      Config
	symmetry *symmetry.Analyzer
	logger   *slog.Logger
}

// New creates a classifier. The provider may be nil, in which case periodic
// results carry a skipped-symmetry warning instead of a symmetry summary.
func New(provider symmetry.Provider, cfg Config, logger *slog.Logger) *Classifier {
	if cfg.DefaultRadius <= 0 {
		cfg.DefaultRadius = DefaultConfig().DefaultRadius
	}
	if cfg.ExtentMargin <= 0 {
		cfg.ExtentMargin = DefaultConfig().ExtentMargin
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		cfg:      cfg,
		symmetry: symmetry.NewAnalyzer(provider, cfg.Symmetry, logger),
		logger:   logger,
	}
}

// Close releases the classifier's cached symmetry state.
func (c *Classifier) Close() {
	c.symmetry.Close()
}

// Classify analyzes one structure and never mutates it. Fatal conditions
// (invalid input, degenerate cell, inconsistent periodicity, empty primary
// region, symmetry timeout) abort the call; everything else is recorded as
// a warning on the result.
func (c *Classifier) Classify(ctx context.Context, s *model.Structure) (*model.ClassificationResult, error) {
	start := time.Now()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.AtomCount() == 0 {
		return nil, &region.EmptyPrimaryRegionError{AtomCount: 0}
	}

	result := model.NewClassificationResult(s.AtomCount())

	radii, unknown := geometry.Radii(s.Species, c.cfg.DefaultRadius)
	if len(unknown) > 0 {
		result.AddWarning(model.WarnUnknownSpecies,
			fmt.Sprintf("%d atoms have unknown species, covalent radius defaulted to %.2f Å", len(unknown), c.cfg.DefaultRadius),
			unknown...)
	}

	extent := geometry.BoundingExtent(s.Positions, c.cfg.ExtentMargin)
	basis, periodic := geometry.CompleteBasis(s.Lattice, s.Periodic, extent)
	cell, err := geometry.NewCell(basis, periodic)
	if err != nil {
		return nil, err
	}

	graph, err := bondgraph.Build(ctx, cell, s.Positions, radii, c.cfg.Graph)
	if err != nil {
		return nil, err
	}
	result.BondCount = graph.BondCount()

	regions, err := region.Separate(graph, s, c.cfg.Region)
	if err != nil {
		return nil, err
	}
	result.Regions = regions
	if outliers := regions.OutlierIndices(); len(outliers) > 0 {
		result.AddWarning(model.WarnOutliersPresent,
			fmt.Sprintf("%d atoms fall outside the primary region", len(outliers)),
			outliers...)
	}

	dim, err := dimension.Classify(graph, regions, s)
	if err != nil {
		return nil, err
	}
	result.Dimensionality = dim
	result.Class = model.ClassForRank(dim.Rank)
	result.Subtype = dimension.Subtype(cell, s, regions, dim, c.cfg.Dimension)

	if declared := len(s.PeriodicDirections()); dim.Rank < declared {
		result.AddWarning(model.WarnRankMismatch,
			fmt.Sprintf("measured rank %d below %d declared periodic directions", dim.Rank, declared))
	}

	primary := regions.PrimaryIndices()
	if dim.Rank == 0 {
		moments, err := primaryMoments(s, primary)
		if err != nil {
			c.logger.Warn("moments of inertia unavailable", "error", err)
		} else {
			result.MomentsOfInertia = moments
		}
	} else if err := c.attachSymmetry(ctx, cell, s, primary, dim, result); err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	c.logger.Debug("classification complete",
		"class", result.Class,
		"subtype", result.Subtype,
		"atoms", result.AtomCount,
		"bonds", result.BondCount,
		"outliers", len(regions.OutlierIndices()),
		"elapsed", result.Elapsed)
	return result, nil
}

// attachSymmetry queries the provider for structures periodic in at least
// one direction. A timeout or caller cancellation is fatal; any other
// failure downgrades to a warning so the geometric classification stands.
func (c *Classifier) attachSymmetry(ctx context.Context, cell *geometry.Cell, s *model.Structure, primary []int, dim model.DimensionalityResult, result *model.ClassificationResult) error {
	summary, err := c.symmetry.Analyze(ctx, cell, s, primary, dim)
	switch {
	case err == nil:
		result.Symmetry = summary
	case errors.Is(err, symmetry.ErrTimeout), errors.Is(err, context.Canceled):
		return err
	default:
		c.logger.Warn("symmetry analysis skipped", "error", err)
		result.AddWarning(model.WarnSymmetrySkipped, err.Error())
	}
	return nil
}

// primaryMoments computes the primary region's principal moments of
// inertia, mass weighted with unit fallback for unknown species.
func primaryMoments(s *model.Structure, primary []int) ([]float64, error) {
	positions := make([]model.Vec3, len(primary))
	masses := make([]float64, len(primary))
	for k, i := range primary {
		positions[k] = s.Positions[i]
		m, ok := geometry.AtomicMass(s.Species[i])
		if !ok {
			m = 1.0
		}
		masses[k] = m
	}
	moments, _, err := geometry.MomentsOfInertia(positions, masses)
	if err != nil {
		return nil, err
	}
	return moments[:], nil
}
