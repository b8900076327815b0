package config

import (
	"github.com/spf13/viper"

	"github.com/blueraft/matid/internal/classify"
)

// LoadClassifyConfig builds the pipeline configuration from Viper.
// It follows this precedence:
// 1. Individual keys (from config file or MATID_ env vars)
// 2. The selected preset, if any
// 3. Built-in defaults
func LoadClassifyConfig() (classify.Config, error) {
	cfg := classify.DefaultConfig()

	if name := viper.GetString("preset"); name != "" {
		preset, err := LoadPreset(name)
		if err != nil {
			return classify.Config{}, err
		}
		cfg = preset.Apply(cfg)
	}

	if v := viper.GetFloat64("classify.radius_factor"); v > 0 {
		cfg.Graph.RadiusFactor = v
	}
	if v := viper.GetInt("classify.shell"); v > 0 {
		cfg.Graph.Shell = v
	}
	if v := viper.GetInt("classify.workers"); v > 0 {
		cfg.Graph.Workers = v
	}
	if v := viper.GetFloat64("classify.cluster_radius"); v > 0 {
		cfg.Region.NeighborRadius = v
	}
	if v := viper.GetInt("classify.min_cluster_size"); v > 0 {
		cfg.Region.MinClusterSize = v
	}
	if v := viper.GetFloat64("classify.max_thickness_2d"); v > 0 {
		cfg.Dimension.MaxThickness2D = v
	}
	if v := viper.GetFloat64("classify.vacuum_threshold"); v > 0 {
		cfg.Dimension.VacuumThreshold = v
	}
	if v := viper.GetDuration("classify.symmetry_timeout"); v > 0 {
		cfg.Symmetry.Timeout = v
	}
	if v := viper.GetFloat64("classify.default_radius"); v > 0 {
		cfg.DefaultRadius = v
		cfg.Region.DefaultRadius = v
		cfg.Dimension.DefaultRadius = v
		cfg.Symmetry.DefaultRadius = v
	}
	if v := viper.GetFloat64("classify.extent_margin"); v > 0 {
		cfg.ExtentMargin = v
	}

	return cfg, nil
}
