package symmetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/blueraft/matid/internal/common"
	"github.com/blueraft/matid/internal/geometry"
	"github.com/blueraft/matid/internal/model"
)

// Config holds the analyzer tunables.
type Config struct {
	// ToleranceLadder lists the tolerances tried in order. When the
	// provider finds nothing at one tolerance the next, looser one is
	// tried; real data is rarely exact at the tightest setting.
	ToleranceLadder []float64
	// Timeout bounds each individual provider call.
	Timeout time.Duration
	// MinVacuum is the smallest vacuum padding in ångströms applied along
	// non-propagating axes before the query.
	MinVacuum float64
	// VacuumScale sizes the vacuum padding relative to the occupied extent
	// of the padded axis.
	VacuumScale float64
	// DefaultRadius substitutes for the covalent radius of unknown species.
	DefaultRadius float64
	// CacheTTL bounds how long provider answers are memoized.
	CacheTTL time.Duration
	// Retry governs re-attempts after transient provider failures.
	Retry common.RetryOptions
}

// DefaultConfig returns the standard analyzer parameters.
func DefaultConfig() Config {
	return Config{
		ToleranceLadder: []float64{1e-5, 1e-3, 0.1},
		Timeout:         30 * time.Second,
		MinVacuum:       5.0,
		VacuumScale:     3.0,
		DefaultRadius:   1.2,
		CacheTTL:        time.Hour,
		Retry:           common.RetryOptions{MaxAttempts: 2, InitialDelay: 50 * time.Millisecond},
	}
}

// Analyzer runs symmetry queries against a Provider. It owns the reduction
// of a structure to its primary region, vacuum padding, the tolerance
// ladder, per-call timeouts and result caching. Safe for concurrent use.
type Analyzer struct {
	provider Provider
	cache    *datasetCache
	cfg      Config
	logger   *slog.Logger
}

// NewAnalyzer creates an analyzer for the given provider. A nil provider is
// allowed; Analyze then reports ErrProviderUnavailable.
func NewAnalyzer(provider Provider, cfg Config, logger *slog.Logger) *Analyzer {
	if len(cfg.ToleranceLadder) == 0 {
		cfg.ToleranceLadder = DefaultConfig().ToleranceLadder
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MinVacuum <= 0 {
		cfg.MinVacuum = DefaultConfig().MinVacuum
	}
	if cfg.VacuumScale <= 0 {
		cfg.VacuumScale = DefaultConfig().VacuumScale
	}
	if cfg.DefaultRadius <= 0 {
		cfg.DefaultRadius = DefaultConfig().DefaultRadius
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		provider: provider,
		cache:    newDatasetCache(cfg.CacheTTL),
		cfg:      cfg,
		logger:   logger,
	}
}

// Close releases the analyzer's cache resources.
func (a *Analyzer) Close() {
	a.cache.Close()
}

// Analyze queries the provider for the primary region's symmetry. The
// region is cut out of the structure, non-propagating axes are padded with
// vacuum and recentered, and the provider's per-atom answers are mapped
// back onto original atom indices. An identity space group is a valid
// answer; exhausting the tolerance ladder reports ErrNoSymmetry.
func (a *Analyzer) Analyze(ctx context.Context, cell *geometry.Cell, s *model.Structure, primary []int, dim model.DimensionalityResult) (*model.SymmetrySummary, error) {
	if a.provider == nil {
		return nil, ErrProviderUnavailable
	}
	if len(primary) == 0 {
		return nil, fmt.Errorf("symmetry: no atoms to analyze")
	}

	sub := s.Subset(primary)
	lattice, frac := a.padForQuery(cell, sub, dim)
	numbers := speciesNumbers(sub.Species)

	padded := &model.Structure{Species: sub.Species, Positions: frac}
	hash := paddedHash(padded, lattice)

	var lastErr error
	for _, tol := range a.cfg.ToleranceLadder {
		key := fmt.Sprintf("%s|%g", hash, tol)
		ds, ok := a.cache.get(key)
		if !ok {
			var err error
			ds, err = a.query(ctx, lattice, frac, numbers, tol)
			if err != nil {
				if errors.Is(err, ErrNoSymmetry) {
					a.logger.Debug("no symmetry found, loosening tolerance", "tolerance", tol)
					lastErr = err
					continue
				}
				return nil, err
			}
			a.cache.set(key, ds)
		}
		a.logger.Debug("symmetry resolved",
			"space_group", ds.SpaceGroupNumber,
			"symbol", ds.InternationalSymbol,
			"tolerance", tol,
			"cached", ok)
		return a.summarize(ds, primary, tol), nil
	}

	if lastErr == nil {
		lastErr = ErrNoSymmetry
	}
	return nil, fmt.Errorf("symmetry: tolerance ladder exhausted: %w", lastErr)
}

// query calls the provider once per retry attempt, each under the
// configured timeout. Only transient errors marked retryable by the
// provider are attempted again.
func (a *Analyzer) query(ctx context.Context, lattice [3][3]float64, frac [][3]float64, species []int, tol float64) (*Dataset, error) {
	var ds *Dataset
	err := common.WithRetry(ctx, func() error {
		var callErr error
		ds, callErr = a.callProvider(ctx, lattice, frac, species, tol)
		return callErr
	}, a.cfg.Retry)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// callProvider runs one provider call in a goroutine so an unresponsive
// provider cannot stall the classification past its time budget. The
// goroutine is handed a canceled context on expiry; a provider that ignores
// it leaks the goroutine until it finishes on its own.
func (a *Analyzer) callProvider(ctx context.Context, lattice [3][3]float64, frac [][3]float64, species []int, tol float64) (*Dataset, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	type answer struct {
		ds  *Dataset
		err error
	}
	ch := make(chan answer, 1)
	start := time.Now()

	go func() {
		ds, err := a.provider.FindSymmetry(ctx, lattice, frac, species, tol)
		ch <- answer{ds: ds, err: err}
	}()

	select {
	case got := <-ch:
		// A deadline surfaced by the provider itself is still a timeout.
		if got.err != nil && errors.Is(got.err, context.DeadlineExceeded) {
			return nil, &TimeoutError{Tolerance: tol, Elapsed: time.Since(start)}
		}
		return got.ds, got.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Tolerance: tol, Elapsed: time.Since(start)}
		}
		return nil, ctx.Err()
	}
}

// summarize converts a raw dataset into the result model, mapping per-atom
// fields from query order back to original atom indices.
func (a *Analyzer) summarize(ds *Dataset, primary []int, tol float64) *model.SymmetrySummary {
	sum := &model.SymmetrySummary{
		SpaceGroupNumber:    ds.SpaceGroupNumber,
		InternationalSymbol: ds.InternationalSymbol,
		HallNumber:          ds.HallNumber,
		HallSymbol:          ds.HallSymbol,
		PointGroup:          ds.PointGroup,
		Choice:              ds.Choice,
		CrystalSystem:       CrystalSystem(ds.SpaceGroupNumber),
		BravaisLattice:      BravaisLattice(ds.SpaceGroupNumber, ds.InternationalSymbol),
		IsChiral:            ds.IsChiral(),
		Tolerance:           tol,
		OperationCount:      ds.OperationCount(),
	}
	if !isZeroLattice(ds.PrimitiveLattice) {
		sum.PrimitiveLattice = []model.Vec3{
			ds.PrimitiveLattice[0],
			ds.PrimitiveLattice[1],
			ds.PrimitiveLattice[2],
		}
	}

	for i, letter := range ds.Wyckoffs {
		if i >= len(primary) {
			break
		}
		eq := i
		if i < len(ds.EquivalentAtoms) && ds.EquivalentAtoms[i] >= 0 && ds.EquivalentAtoms[i] < len(primary) {
			eq = ds.EquivalentAtoms[i]
		}
		sum.Wyckoffs = append(sum.Wyckoffs, model.WyckoffSite{
			Atom:       primary[i],
			Letter:     letter,
			Equivalent: primary[eq],
		})
	}
	return sum
}

func isZeroLattice(l [3][3]float64) bool {
	for _, row := range l {
		for _, v := range row {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// padForQuery converts the reduced structure into the provider's input
// frame: full three-vector lattice rows plus wrapped fractional positions.
// Every non-propagating axis is scaled so the occupied block keeps its
// Cartesian extent, gains vacuum of max(MinVacuum, VacuumScale*extent), and
// sits centered. Propagating axes pass through untouched.
func (a *Analyzer) padForQuery(cell *geometry.Cell, sub *model.Structure, dim model.DimensionalityResult) ([3][3]float64, []model.Vec3) {
	frac := make([]model.Vec3, sub.AtomCount())
	for i, p := range sub.Positions {
		frac[i] = cell.WrapFractional(cell.ToFractional(p))
	}

	offAxis := [3]bool{true, true, true}
	for _, d := range dim.PropagatingDirections {
		offAxis[d] = false
	}

	radii, _ := geometry.Radii(sub.Species, a.cfg.DefaultRadius)
	extents := geometry.Dimensions(cell, frac, radii, offAxis)

	basis := cell.Basis
	for d := 0; d < 3; d++ {
		if !offAxis[d] {
			continue
		}

		coords := make([]float64, len(frac))
		for i, f := range frac {
			coords[i] = f[d]
		}
		gapStart, gapWidth := geometry.LargestGap(coords)

		blockStart := gapStart + gapWidth
		if blockStart >= 1 {
			blockStart--
		}
		blockLen := 1 - gapWidth

		extent := extents[d]
		if extent < 0 {
			extent = blockLen * cell.Length(d)
		}
		newLen := extent + math.Max(a.cfg.MinVacuum, a.cfg.VacuumScale*extent)
		scale := cell.Length(d) / newLen

		blockCenter := blockStart + blockLen/2
		for i := range frac {
			c := frac[i][d]
			if c < blockStart {
				c++
			}
			frac[i][d] = 0.5 + (c-blockCenter)*scale
		}
		basis[d] = geometry.Scale(cell.Basis[d], newLen/cell.Length(d))
	}

	var lattice [3][3]float64
	for d := 0; d < 3; d++ {
		lattice[d] = basis[d]
	}
	return lattice, frac
}

// paddedHash builds the cache key base from the padded query inputs.
func paddedHash(padded *model.Structure, lattice [3][3]float64) string {
	keyed := padded.Copy()
	keyed.Lattice = []model.Vec3{lattice[0], lattice[1], lattice[2]}
	keyed.Periodic = []bool{true, true, true}
	return keyed.ContentHash()
}

// speciesNumbers maps species symbols to the provider's integer kinds.
// Unknown symbols receive stable synthetic numbers above the element table
// so distinct unknowns stay distinguishable.
func speciesNumbers(species []string) []int {
	synthetic := make(map[string]int)
	out := make([]int, len(species))
	for i, sp := range species {
		if z, ok := geometry.AtomicNumber(sp); ok {
			out[i] = z
			continue
		}
		k, ok := synthetic[sp]
		if !ok {
			k = 128 + len(synthetic)
			synthetic[sp] = k
		}
		out[i] = k
	}
	return out
}
