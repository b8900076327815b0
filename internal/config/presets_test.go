package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blueraft/matid/internal/classify"
	"github.com/blueraft/matid/internal/common"
)

func TestPresets_EmbeddedFileParses(t *testing.T) {
	presets, err := Presets()
	require.NoError(t, err)

	for _, name := range []string{"default", "tight", "loose"} {
		preset, ok := presets[name]
		require.True(t, ok, "missing preset %q", name)
		assert.NotEmpty(t, preset.Description, "preset %q has no description", name)
		assert.NotEmpty(t, preset.SymmetryTolerances, "preset %q has no tolerances", name)
	}
}

func TestPresetNames_Sorted(t *testing.T) {
	names, err := PresetNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"default", "loose", "tight"}, names)
}

func TestLoadPreset(t *testing.T) {
	preset, err := LoadPreset("tight")
	require.NoError(t, err)

	assert.InDelta(t, 1.0, preset.RadiusFactor, 1e-12)
	assert.InDelta(t, 1.1, preset.ClusterRadius, 1e-12)
	assert.InDelta(t, 7.0, preset.MaxThickness2D, 1e-12)
	assert.InDelta(t, 8.0, preset.VacuumThreshold, 1e-12)
	assert.Equal(t, []float64{1e-6, 1e-5, 1e-3}, preset.SymmetryTolerances)
}

func TestLoadPreset_Unknown(t *testing.T) {
	_, err := LoadPreset("extreme")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "extreme")
	assert.Contains(t, err.Error(), "default")
}

func TestPresetApply_OverridesOnlyNamedKnobs(t *testing.T) {
	base := classify.DefaultConfig()

	preset, err := LoadPreset("loose")
	require.NoError(t, err)
	cfg := preset.Apply(base)

	assert.InDelta(t, 1.25, cfg.Graph.RadiusFactor, 1e-12)
	assert.InDelta(t, 1.6, cfg.Region.NeighborRadius, 1e-12)
	assert.InDelta(t, 12.0, cfg.Dimension.MaxThickness2D, 1e-12)
	assert.InDelta(t, 6.0, cfg.Dimension.VacuumThreshold, 1e-12)
	assert.Equal(t, []float64{1e-3, 0.1, 0.5}, cfg.Symmetry.ToleranceLadder)

	// Knobs the preset does not name keep their defaults.
	assert.Equal(t, base.Graph.Shell, cfg.Graph.Shell)
	assert.Equal(t, base.Region.MinClusterSize, cfg.Region.MinClusterSize)
	assert.Equal(t, base.Symmetry.Timeout, cfg.Symmetry.Timeout)
	assert.InDelta(t, base.DefaultRadius, cfg.DefaultRadius, 1e-12)
}

func TestPresetApply_ZeroPresetIsNoOp(t *testing.T) {
	base := classify.DefaultConfig()
	cfg := Preset{}.Apply(base)

	assert.InDelta(t, base.Graph.RadiusFactor, cfg.Graph.RadiusFactor, 1e-12)
	assert.Equal(t, base.Symmetry.ToleranceLadder, cfg.Symmetry.ToleranceLadder)
}

func TestLoadClassifyConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadClassifyConfig()
	require.NoError(t, err)

	def := classify.DefaultConfig()
	assert.InDelta(t, def.Graph.RadiusFactor, cfg.Graph.RadiusFactor, 1e-12)
	assert.Equal(t, def.Graph.Shell, cfg.Graph.Shell)
	assert.Equal(t, def.Symmetry.ToleranceLadder, cfg.Symmetry.ToleranceLadder)
}

func TestLoadClassifyConfig_PresetThenKeyOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("preset", "tight")
	viper.Set("classify.radius_factor", 1.3)
	viper.Set("classify.symmetry_timeout", "45s")

	cfg, err := LoadClassifyConfig()
	require.NoError(t, err)

	// The explicit key wins over the preset.
	assert.InDelta(t, 1.3, cfg.Graph.RadiusFactor, 1e-12)
	// Preset values fill in where no key is set.
	assert.InDelta(t, 1.1, cfg.Region.NeighborRadius, 1e-12)
	assert.Equal(t, []float64{1e-6, 1e-5, 1e-3}, cfg.Symmetry.ToleranceLadder)
	assert.Equal(t, 45*time.Second, cfg.Symmetry.Timeout)
}

func TestLoadClassifyConfig_UnknownPreset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("preset", "nope")
	_, err := LoadClassifyConfig()
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadClassifyConfig_DefaultRadiusFansOut(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("classify.default_radius", 1.5)
	cfg, err := LoadClassifyConfig()
	require.NoError(t, err)

	assert.InDelta(t, 1.5, cfg.DefaultRadius, 1e-12)
	assert.InDelta(t, 1.5, cfg.Region.DefaultRadius, 1e-12)
	assert.InDelta(t, 1.5, cfg.Dimension.DefaultRadius, 1e-12)
	assert.InDelta(t, 1.5, cfg.Symmetry.DefaultRadius, 1e-12)
}
