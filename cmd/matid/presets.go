package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blueraft/matid/internal/cli"
	"github.com/blueraft/matid/internal/config"
)

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in tolerance presets",
		Long: `List the built-in tolerance presets and the knobs each one overrides.

Select a preset with --preset/-p or the "preset" config key. Individual
classify.* keys from the config file or MATID_* environment variables still
win over the selected preset.`,
		RunE: runPresets,
	}
}

func runPresets(_ *cobra.Command, _ []string) error {
	names, err := config.PresetNames()
	if err != nil {
		return err
	}
	presets, err := config.Presets()
	if err != nil {
		return err
	}

	active := viper.GetString("preset")

	fmt.Println(cli.FormatTitle("Tolerance presets"))
	for _, name := range names {
		preset := presets[name]

		title := cli.BoldStyle.Render(name)
		if name == active {
			title += " " + cli.StyleSuccess("(active)")
		}
		fmt.Println(title)
		fmt.Println("  " + cli.SubtleStyle.Render(preset.Description))
		fmt.Println("  " + formatPreset(preset))
		fmt.Println()
	}
	return nil
}

// formatPreset folds a preset's overrides into one summary line.
func formatPreset(p config.Preset) string {
	var parts []string
	if p.RadiusFactor > 0 {
		parts = append(parts, fmt.Sprintf("radius factor %.2f", p.RadiusFactor))
	}
	if p.ClusterRadius > 0 {
		parts = append(parts, fmt.Sprintf("cluster radius %.2f Å", p.ClusterRadius))
	}
	if p.MaxThickness2D > 0 {
		parts = append(parts, fmt.Sprintf("2D thickness ≤ %.1f Å", p.MaxThickness2D))
	}
	if p.VacuumThreshold > 0 {
		parts = append(parts, fmt.Sprintf("vacuum ≥ %.1f Å", p.VacuumThreshold))
	}
	if len(p.SymmetryTolerances) > 0 {
		tols := make([]string, len(p.SymmetryTolerances))
		for i, t := range p.SymmetryTolerances {
			tols[i] = fmt.Sprintf("%g", t)
		}
		parts = append(parts, "symmetry tolerances "+strings.Join(tols, ", "))
	}
	return strings.Join(parts, " · ")
}
