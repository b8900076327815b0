package dimension

import (
	"github.com/blueraft/matid/internal/geometry"
	"github.com/blueraft/matid/internal/model"
)

// Config holds the subtype decision thresholds.
type Config struct {
	// MaxThickness2D is the largest slab thickness in ångströms still
	// accepted as a free-standing 2-D material.
	MaxThickness2D float64
	// VacuumThreshold is the smallest gap in ångströms that counts as
	// vacuum separating a slab from its periodic images.
	VacuumThreshold float64
	// DefaultRadius substitutes for the covalent radius of unknown species.
	DefaultRadius float64
}

// DefaultConfig returns the standard subtype thresholds.
func DefaultConfig() Config {
	return Config{
		MaxThickness2D:  9.0,
		VacuumThreshold: geometry.DefaultVacuumThreshold,
		DefaultRadius:   1.2,
	}
}

// Subtype refines a dimensionality rank into a structural interpretation.
// Rank 2 splits on slab geometry: a thin primary slab with clean vacuum on
// the non-propagating axes is a 2-D material, anything thicker or with
// atoms inside the vacuum gap is a surface.
func Subtype(cell *geometry.Cell, s *model.Structure, regions model.RegionAssignment, dim model.DimensionalityResult, cfg Config) model.Subtype {
	switch dim.Rank {
	case 0:
		if len(regions.PrimaryIndices()) == 1 {
			return model.SubtypeAtom
		}
		return model.SubtypeCluster
	case 1:
		return model.SubtypeChain
	case 2:
		if isThinFilm(cell, s, regions, dim, cfg) {
			return model.SubtypeMaterial2D
		}
		return model.SubtypeSurface
	case 3:
		return model.SubtypeBulk
	default:
		return model.SubtypeUnknown
	}
}

// isThinFilm checks the three 2-D material conditions: the primary slab is
// thinner than MaxThickness2D, a vacuum gap of at least VacuumThreshold
// separates it from its images along every non-propagating axis, and no
// outlier atom sits inside that gap.
func isThinFilm(cell *geometry.Cell, s *model.Structure, regions model.RegionAssignment, dim model.DimensionalityResult, cfg Config) bool {
	primary := regions.PrimaryIndices()
	if len(primary) == 0 {
		return false
	}

	offAxis := [3]bool{true, true, true}
	for _, d := range dim.PropagatingDirections {
		offAxis[d] = false
	}

	frac := make([]model.Vec3, len(primary))
	species := make([]string, len(primary))
	for k, i := range primary {
		frac[k] = cell.WrapFractional(cell.ToFractional(s.Positions[i]))
		species[k] = s.Species[i]
	}
	radii, _ := geometry.Radii(species, cfg.DefaultRadius)

	thickness := geometry.Thickness(cell, frac, radii, offAxis)
	if thickness < 0 || thickness > cfg.MaxThickness2D {
		return false
	}

	vacuum := geometry.VacuumDirections(cell, frac, cfg.VacuumThreshold)
	for d := 0; d < 3; d++ {
		if !offAxis[d] {
			continue
		}
		if !vacuum[d] {
			return false
		}
		if outlierInGap(cell, s, regions, frac, d, cfg) {
			return false
		}
	}
	return true
}

// outlierInGap reports whether any outlier atom's center falls strictly
// inside the primary slab's largest wrap-around gap along the given axis,
// with the outlier's own radius as margin from both gap edges.
func outlierInGap(cell *geometry.Cell, s *model.Structure, regions model.RegionAssignment, primaryFrac []model.Vec3, axis int, cfg Config) bool {
	gapStart, gapWidth := largestCircularGap(primaryFrac, axis)
	if gapWidth <= 0 {
		return false
	}

	for _, o := range regions.OutlierIndices() {
		f := cell.WrapFractional(cell.ToFractional(s.Positions[o]))
		pos := f[axis]
		if pos < gapStart {
			pos++
		}
		r, ok := geometry.CovalentRadius(s.Species[o])
		if !ok {
			r = cfg.DefaultRadius
		}
		margin := r / cell.Length(axis)
		if pos > gapStart+margin && pos < gapStart+gapWidth-margin {
			return true
		}
	}
	return false
}

// largestCircularGap extracts one axis of the fractional coordinates and
// finds the widest wrap-around gap along it.
func largestCircularGap(frac []model.Vec3, axis int) (start, width float64) {
	coords := make([]float64, len(frac))
	for i, f := range frac {
		coords[i] = f[axis]
	}
	return geometry.LargestGap(coords)
}
