package region

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueraft/matid/internal/bondgraph"
	"github.com/blueraft/matid/internal/geometry"
	"github.com/blueraft/matid/internal/model"
	"github.com/blueraft/matid/internal/testutil"
)

func graphFor(t *testing.T, s *model.Structure) *bondgraph.Graph {
	t.Helper()
	extent := geometry.BoundingExtent(s.Positions, 5)
	basis, periodic := geometry.CompleteBasis(s.Lattice, s.Periodic, extent)
	cell, err := geometry.NewCell(basis, periodic)
	require.NoError(t, err)
	radii, _ := geometry.Radii(s.Species, 1.2)
	g, err := bondgraph.Build(context.Background(), cell, s.Positions, radii, bondgraph.DefaultConfig())
	require.NoError(t, err)
	return g
}

func TestSeparate_AllPrimary(t *testing.T) {
	s := testutil.Graphene()
	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []model.Region{model.RegionPrimary, model.RegionPrimary}, assign.Labels)
	assert.Empty(t, assign.OutlierGroups)
	assert.Equal(t, []int{0, 1}, assign.PrimaryIndices())
	assert.Empty(t, assign.OutlierIndices())
}

func TestSeparate_FloatingAtom(t *testing.T) {
	s := testutil.RockSaltWithFloatingAtom()
	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, assign.PrimaryIndices())
	assert.Equal(t, []int{8}, assign.OutlierIndices())
	assert.Equal(t, [][]int{{8}}, assign.OutlierGroups)
}

func TestSeparate_AdsorbateStaysOneGroup(t *testing.T) {
	// The two nitrogen atoms above the sheet are unreachable from the
	// carbon network but bonded to each other; they must land in a single
	// outlier group rather than two.
	s := testutil.GrapheneWithAdsorbate()
	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)

	assert.Len(t, assign.PrimaryIndices(), 8)
	assert.Equal(t, [][]int{{8, 9}}, assign.OutlierGroups)
}

func TestSeparate_DistantOutliersSplit(t *testing.T) {
	base := testutil.RockSaltWithFloatingAtom()
	species := append(append([]string(nil), base.Species...), "He")
	positions := append(append([]model.Vec3(nil), base.Positions...), model.Vec3{4.23, 4.23, 4.23})
	s, err := model.NewStructure(species, positions)
	require.NoError(t, err)
	s, err = s.WithLattice(base.Lattice, base.Periodic)
	require.NoError(t, err)

	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, [][]int{{8}, {9}}, assign.OutlierGroups)
}

func TestSeparate_TieBreakMeanAtomicNumber(t *testing.T) {
	// Two equally sized molecules: oxygen first in atom order, carbon
	// second. The carbon pair has the lower mean atomic number and must win
	// the primary slot despite its higher indices.
	s, err := model.NewStructure(
		[]string{"O", "O", "C", "C"},
		[]model.Vec3{{0, 0, 0}, {1.2, 0, 0}, {20, 0, 0}, {21.3, 0, 0}},
	)
	require.NoError(t, err)

	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, assign.PrimaryIndices())
	assert.Equal(t, [][]int{{0, 1}}, assign.OutlierGroups)
}

func TestSeparate_TieBreakLowestIndex(t *testing.T) {
	// Two identical molecules: same size, same mean atomic number. The one
	// containing atom 0 wins.
	s, err := model.NewStructure(
		[]string{"N", "N", "N", "N"},
		[]model.Vec3{{0, 0, 0}, {1.1, 0, 0}, {20, 0, 0}, {21.1, 0, 0}},
	)
	require.NoError(t, err)

	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, assign.PrimaryIndices())
	assert.Equal(t, []int{2, 3}, assign.OutlierIndices())
}

func TestSeparate_Empty(t *testing.T) {
	s, err := model.NewStructure(nil, nil)
	require.NoError(t, err)

	_, err = Separate(graphFor(t, s), s, DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyPrimaryRegion)

	var typed *EmptyPrimaryRegionError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, 0, typed.AtomCount)
}

func TestSeparate_SingleAtomIsPrimary(t *testing.T) {
	s := testutil.SingleAtom("Fe")
	assign, err := Separate(graphFor(t, s), s, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []model.Region{model.RegionPrimary}, assign.Labels)
	assert.Empty(t, assign.OutlierGroups)
}
