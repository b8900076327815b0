package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/blueraft/matid/internal/model"
)

// axisNames labels the three lattice vectors in rendered output.
var axisNames = [3]string{"a", "b", "c"}

// RenderResult renders a boxed human-readable summary of one classification.
func RenderResult(name string, r *model.ClassificationResult) string {
	rows := []string{
		row("Class", ClassStyle(r.Class).Render(string(r.Class))+SubtleStyle.Render(" · "+string(r.Subtype))),
		row("Periodic along", formatDirections(r.Dimensionality.PropagatingDirections)),
		row("Atoms", fmt.Sprintf("%d (%d bonds)", r.AtomCount, r.BondCount)),
	}

	if outliers := r.Regions.OutlierIndices(); len(outliers) > 0 {
		rows = append(rows, row("Outliers",
			WarningStyle.Render(fmt.Sprintf("%d atoms in %d groups", len(outliers), len(r.Regions.OutlierGroups)))))
	}

	if r.Symmetry != nil {
		rows = append(rows,
			row("Space group", fmt.Sprintf("%s (No. %d)", r.Symmetry.InternationalSymbol, r.Symmetry.SpaceGroupNumber)),
			row("Crystal system", fmt.Sprintf("%s · %s", r.Symmetry.CrystalSystem, r.Symmetry.BravaisLattice)),
			row("Wyckoff sites", fmt.Sprintf("%d", len(r.Symmetry.Wyckoffs))),
		)
	}

	if len(r.MomentsOfInertia) == 3 {
		rows = append(rows, row("Inertia moments", fmt.Sprintf("%.2f, %.2f, %.2f amu·Å²",
			r.MomentsOfInertia[0], r.MomentsOfInertia[1], r.MomentsOfInertia[2])))
	}

	rows = append(rows, row("Elapsed", r.Elapsed.Round(10*time.Microsecond).String()))

	for _, w := range r.Warnings {
		rows = append(rows, FormatWarning(w.Message))
	}

	return RenderBox(CrystalIcon+" "+name, lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderBatchSummary renders the closing line of a batch run.
func RenderBatchSummary(total, completed, failed int, elapsed time.Duration) string {
	var parts []string
	parts = append(parts, FormatSuccess(fmt.Sprintf("%d/%d classified", completed, total)))
	if failed > 0 {
		parts = append(parts, FormatError(fmt.Sprintf("%d failed", failed)))
	}
	parts = append(parts, SubtleStyle.Render("in "+elapsed.Round(time.Millisecond).String()))
	return strings.Join(parts, "  ")
}

func row(label, value string) string {
	return LabelStyle.Render(label) + value
}

func formatDirections(dirs []int) string {
	if len(dirs) == 0 {
		return SubtleStyle.Render("none (finite)")
	}
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if d >= 0 && d < len(axisNames) {
			names = append(names, axisNames[d])
		}
	}
	return strings.Join(names, ", ")
}
