package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/blueraft/matid/internal/model"
)

func slabResult() *model.ClassificationResult {
	r := model.NewClassificationResult(10)
	r.Class = model.Class2D
	r.Subtype = model.SubtypeSurface
	r.Dimensionality = model.DimensionalityResult{Rank: 2, PropagatingDirections: []int{0, 1}}
	labels := make([]model.Region, 10)
	for i := range labels {
		labels[i] = model.RegionPrimary
	}
	labels[8], labels[9] = model.RegionOutlier, model.RegionOutlier
	r.Regions = model.RegionAssignment{
		Labels:        labels,
		OutlierGroups: [][]int{{8, 9}},
	}
	r.BondCount = 13
	r.Elapsed = 42 * time.Millisecond
	r.AddWarning(model.WarnOutliersPresent, "2 atoms fall outside the primary region", 8, 9)
	return r
}

func TestRenderResult_Surface(t *testing.T) {
	out := RenderResult("graphene_ads.json", slabResult())

	assert.Contains(t, out, "graphene_ads.json")
	assert.Contains(t, out, "2D")
	assert.Contains(t, out, "surface")
	assert.Contains(t, out, "a, b")
	assert.Contains(t, out, "10 (13 bonds)")
	assert.Contains(t, out, "2 atoms in 1 groups")
	assert.Contains(t, out, "2 atoms fall outside the primary region")
	assert.NotContains(t, out, "Space group")
}

func TestRenderResult_BulkWithSymmetry(t *testing.T) {
	r := model.NewClassificationResult(8)
	r.Class = model.Class3D
	r.Subtype = model.SubtypeBulk
	r.Dimensionality = model.DimensionalityResult{Rank: 3, PropagatingDirections: []int{0, 1, 2}}
	r.Symmetry = &model.SymmetrySummary{
		SpaceGroupNumber:    225,
		InternationalSymbol: "Fm-3m",
		CrystalSystem:       "cubic",
		BravaisLattice:      "cF",
		Wyckoffs:            make([]model.WyckoffSite, 8),
	}

	out := RenderResult("nacl.json", r)

	assert.Contains(t, out, "Fm-3m (No. 225)")
	assert.Contains(t, out, "cubic")
	assert.Contains(t, out, "8")
}

func TestRenderResult_FiniteShowsMoments(t *testing.T) {
	r := model.NewClassificationResult(2)
	r.Class = model.Class0D
	r.Subtype = model.SubtypeCluster
	r.MomentsOfInertia = []float64{0, 8.47, 8.47}

	out := RenderResult("n2.json", r)

	assert.Contains(t, out, "none (finite)")
	assert.Contains(t, out, "0.00, 8.47, 8.47 amu·Å²")
}

func TestRenderBatchSummary(t *testing.T) {
	out := RenderBatchSummary(20, 18, 2, 1500*time.Millisecond)
	assert.Contains(t, out, "18/20 classified")
	assert.Contains(t, out, "2 failed")
	assert.Contains(t, out, "1.5s")

	clean := RenderBatchSummary(5, 5, 0, time.Second)
	assert.NotContains(t, clean, "failed")
}

func TestClassStyle_UnknownFallsBack(t *testing.T) {
	// Unknown classes still get a usable style.
	style := ClassStyle(model.ClassUnknown)
	assert.Equal(t, "unknown", style.Render("unknown"))
}
