package config

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/blueraft/matid/internal/classify"
	"github.com/blueraft/matid/internal/common"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is a named bundle of classification tolerances. Zero-valued
// fields leave the corresponding config knob untouched.
type Preset struct {
	Description        string    `yaml:"description"`
	RadiusFactor       float64   `yaml:"radius_factor"`
	ClusterRadius      float64   `yaml:"cluster_radius"`
	MaxThickness2D     float64   `yaml:"max_thickness_2d"`
	VacuumThreshold    float64   `yaml:"vacuum_threshold"`
	SymmetryTolerances []float64 `yaml:"symmetry_tolerances"`
}

type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

var (
	presetsOnce sync.Once
	presetsMap  map[string]Preset
	presetsErr  error
)

// Presets returns all embedded presets keyed by name.
func Presets() (map[string]Preset, error) {
	presetsOnce.Do(func() {
		var file presetFile
		if err := yaml.Unmarshal(presetsYAML, &file); err != nil {
			presetsErr = fmt.Errorf("parsing embedded presets: %w", err)
			return
		}
		presetsMap = file.Presets
	})
	return presetsMap, presetsErr
}

// PresetNames returns the available preset names in sorted order.
func PresetNames() ([]string, error) {
	presets, err := Presets()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// LoadPreset looks up a preset by name.
func LoadPreset(name string) (Preset, error) {
	presets, err := Presets()
	if err != nil {
		return Preset{}, err
	}
	preset, ok := presets[name]
	if !ok {
		names, _ := PresetNames()
		return Preset{}, fmt.Errorf("%w: unknown preset %q (available: %s)",
			common.ErrInvalidConfig, name, strings.Join(names, ", "))
	}
	return preset, nil
}

// Apply overlays the preset's non-zero fields onto cfg and returns the result.
func (p Preset) Apply(cfg classify.Config) classify.Config {
	if p.RadiusFactor > 0 {
		cfg.Graph.RadiusFactor = p.RadiusFactor
	}
	if p.ClusterRadius > 0 {
		cfg.Region.NeighborRadius = p.ClusterRadius
	}
	if p.MaxThickness2D > 0 {
		cfg.Dimension.MaxThickness2D = p.MaxThickness2D
	}
	if p.VacuumThreshold > 0 {
		cfg.Dimension.VacuumThreshold = p.VacuumThreshold
	}
	if len(p.SymmetryTolerances) > 0 {
		cfg.Symmetry.ToleranceLadder = append([]float64(nil), p.SymmetryTolerances...)
	}
	return cfg
}
