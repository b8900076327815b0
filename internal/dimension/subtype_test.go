package dimension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueraft/matid/internal/model"
	"github.com/blueraft/matid/internal/testutil"
)

func subtypeFor(t *testing.T, s *model.Structure) model.Subtype {
	t.Helper()
	g, regions := pipeline(t, s)
	dim, err := Classify(g, regions, s)
	require.NoError(t, err)
	return Subtype(g.Cell(), s, regions, dim, DefaultConfig())
}

func TestSubtype_SingleAtom(t *testing.T) {
	assert.Equal(t, model.SubtypeAtom, subtypeFor(t, testutil.SingleAtom("Fe")))
}

func TestSubtype_Cluster(t *testing.T) {
	assert.Equal(t, model.SubtypeCluster, subtypeFor(t, testutil.Water()))
	assert.Equal(t, model.SubtypeCluster, subtypeFor(t, testutil.Nitrogen()))
}

func TestSubtype_Chain(t *testing.T) {
	assert.Equal(t, model.SubtypeChain, subtypeFor(t, testutil.CarbonChain()))
}

func TestSubtype_GrapheneIsMaterial2D(t *testing.T) {
	assert.Equal(t, model.SubtypeMaterial2D, subtypeFor(t, testutil.Graphene()))
}

func TestSubtype_ThinSlabIsMaterial2D(t *testing.T) {
	// Three bcc layers: 5.5 Å thick including radii, well under the limit,
	// with clean vacuum above and below.
	assert.Equal(t, model.SubtypeMaterial2D, subtypeFor(t, testutil.BCCIronSlab(3)))
}

func TestSubtype_ThickSlabIsSurface(t *testing.T) {
	// Seven layers measure about 11 Å including radii.
	assert.Equal(t, model.SubtypeSurface, subtypeFor(t, testutil.BCCIronSlab(7)))
}

func TestSubtype_AdsorbateMakesSurface(t *testing.T) {
	// The sheet itself is thin, but the nitrogen molecule sits inside the
	// vacuum gap above it.
	assert.Equal(t, model.SubtypeSurface, subtypeFor(t, testutil.GrapheneWithAdsorbate()))
}

func TestSubtype_Bulk(t *testing.T) {
	assert.Equal(t, model.SubtypeBulk, subtypeFor(t, testutil.RockSalt()))
}

func TestSubtype_UnknownRank(t *testing.T) {
	s := testutil.Water()
	g, regions := pipeline(t, s)
	got := Subtype(g.Cell(), s, regions, model.DimensionalityResult{Rank: -1}, DefaultConfig())
	assert.Equal(t, model.SubtypeUnknown, got)
}

func TestLargestCircularGap_WrapsAround(t *testing.T) {
	// Atoms hugging both cell edges: the real gap is in the middle.
	frac := []model.Vec3{{0, 0, 0.05}, {0, 0, 0.95}}
	start, width := largestCircularGap(frac, 2)
	assert.InDelta(t, 0.05, start, 1e-12)
	assert.InDelta(t, 0.9, width, 1e-12)
}

func TestLargestCircularGap_SinglePoint(t *testing.T) {
	frac := []model.Vec3{{0, 0, 0.5}}
	start, width := largestCircularGap(frac, 2)
	assert.InDelta(t, 0.5, start, 1e-12)
	assert.InDelta(t, 1.0, width, 1e-12)
}
