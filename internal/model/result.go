package model

import (
	"time"

	"github.com/google/uuid"
)

// Class is the dimensionality class of a structure's primary region.
type Class string

// Dimensionality classes. The numeric rank counts the independent lattice
// directions along which the primary region's bond network connects to its
// own periodic images.
const (
	Class0D      Class = "0D"
	Class1D      Class = "1D"
	Class2D      Class = "2D"
	Class3D      Class = "3D"
	ClassUnknown Class = "unknown"
)

// Rank returns the numeric rank of the class, or -1 for ClassUnknown.
func (c Class) Rank() int {
	switch c {
	case Class0D:
		return 0
	case Class1D:
		return 1
	case Class2D:
		return 2
	case Class3D:
		return 3
	default:
		return -1
	}
}

// ClassForRank maps a connectivity rank to its class.
func ClassForRank(rank int) Class {
	switch rank {
	case 0:
		return Class0D
	case 1:
		return Class1D
	case 2:
		return Class2D
	case 3:
		return Class3D
	default:
		return ClassUnknown
	}
}

// Subtype refines a dimensionality class with a structural interpretation.
type Subtype string

// Structural subtypes per class. Rank 2 splits into Material2D for
// free-standing thin films and Surface for thicker slabs or slabs with
// adsorbed outlier atoms; the other ranks map one to one.
const (
	SubtypeAtom       Subtype = "atom"
	SubtypeCluster    Subtype = "cluster"
	SubtypeChain      Subtype = "chain"
	SubtypeMaterial2D Subtype = "material2d"
	SubtypeSurface    Subtype = "surface"
	SubtypeBulk       Subtype = "bulk"
	SubtypeUnknown    Subtype = "unknown"
)

// Region labels for per-atom assignment.
const (
	RegionPrimary Region = "primary"
	RegionOutlier Region = "outlier"
)

// Region labels an atom as part of the primary region or as an outlier.
type Region string

// RegionAssignment records which atoms belong to the primary connected
// region and how the remaining outliers group into coherent sub-regions.
type RegionAssignment struct {
	// Labels holds one entry per atom of the classified structure.
	Labels []Region `json:"labels"`
	// OutlierGroups partitions the outlier atoms into spatially coherent
	// groups. Each group lists original atom indices in ascending order.
	OutlierGroups [][]int `json:"outlier_groups,omitempty"`
}

// PrimaryIndices returns the original indices of primary-region atoms in
// ascending order.
func (r RegionAssignment) PrimaryIndices() []int {
	var out []int
	for i, l := range r.Labels {
		if l == RegionPrimary {
			out = append(out, i)
		}
	}
	return out
}

// OutlierIndices returns the original indices of outlier atoms in ascending
// order.
func (r RegionAssignment) OutlierIndices() []int {
	var out []int
	for i, l := range r.Labels {
		if l == RegionOutlier {
			out = append(out, i)
		}
	}
	return out
}

// DimensionalityResult reports the measured connectivity rank of the
// primary region and the lattice directions along which it propagates.
type DimensionalityResult struct {
	Rank int `json:"rank"`
	// PropagatingDirections lists the indices of lattice vectors along
	// which the bond network reaches its own periodic images, ascending.
	PropagatingDirections []int `json:"propagating_directions,omitempty"`
}

// WyckoffSite pairs an original atom index with its Wyckoff letter and the
// representative index of its symmetry-equivalent set.
type WyckoffSite struct {
	Atom       int    `json:"atom"`
	Letter     string `json:"letter"`
	Equivalent int    `json:"equivalent"`
}

// SymmetrySummary captures the outcome of an external symmetry query,
// normalized back onto the original atom order.
type SymmetrySummary struct {
	SpaceGroupNumber    int           `json:"space_group_number"`
	InternationalSymbol string        `json:"international_symbol"`
	HallNumber          int           `json:"hall_number,omitempty"`
	HallSymbol          string        `json:"hall_symbol,omitempty"`
	PointGroup          string        `json:"point_group,omitempty"`
	Choice              string        `json:"choice,omitempty"`
	CrystalSystem       string        `json:"crystal_system,omitempty"`
	BravaisLattice      string        `json:"bravais_lattice,omitempty"`
	IsChiral            bool          `json:"is_chiral"`
	Tolerance           float64       `json:"tolerance"`
	OperationCount      int           `json:"operation_count,omitempty"`
	PrimitiveLattice    []Vec3        `json:"primitive_lattice,omitempty"`
	Wyckoffs            []WyckoffSite `json:"wyckoffs,omitempty"`
}

// Warning codes attached to classification results.
const (
	WarnUnknownSpecies  = "unknown_species"
	WarnSymmetrySkipped = "symmetry_skipped"
	WarnOutliersPresent = "outliers_present"
	WarnRankMismatch    = "rank_mismatch"
)

// Warning is a non-fatal classification note. Atoms lists the affected
// original atom indices where that is meaningful.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Atoms   []int  `json:"atoms,omitempty"`
}

// ClassificationResult is the complete outcome of classifying one structure.
type ClassificationResult struct {
	ID             string               `json:"id"`
	Class          Class                `json:"class"`
	Subtype        Subtype              `json:"subtype"`
	Dimensionality DimensionalityResult `json:"dimensionality"`
	Regions        RegionAssignment     `json:"regions"`
	Symmetry       *SymmetrySummary     `json:"symmetry,omitempty"`
	Warnings       []Warning            `json:"warnings,omitempty"`
	// MomentsOfInertia holds the primary region's three principal moments in
	// ascending order, filled for finite (rank 0) structures.
	MomentsOfInertia []float64     `json:"moments_of_inertia,omitempty"`
	AtomCount        int           `json:"atom_count"`
	BondCount        int           `json:"bond_count"`
	Elapsed          time.Duration `json:"elapsed"`
	ClassifiedAt     time.Time     `json:"classified_at"`
}

// NewClassificationResult allocates a result with a fresh identifier and
// timestamp. Callers fill in the classification fields.
func NewClassificationResult(atomCount int) *ClassificationResult {
	return &ClassificationResult{
		ID:           uuid.New().String(),
		Class:        ClassUnknown,
		Subtype:      SubtypeUnknown,
		AtomCount:    atomCount,
		ClassifiedAt: time.Now().UTC(),
	}
}

// AddWarning appends a warning to the result.
func (r *ClassificationResult) AddWarning(code, message string, atoms ...int) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: message, Atoms: atoms})
}

// HasWarning reports whether a warning with the given code is present.
func (r *ClassificationResult) HasWarning(code string) bool {
	for _, w := range r.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
