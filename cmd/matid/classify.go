package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/blueraft/matid/internal/classify"
	"github.com/blueraft/matid/internal/cli"
	"github.com/blueraft/matid/internal/config"
	"github.com/blueraft/matid/internal/symmetry/spglib"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <structure.json>",
		Short: "Classify the dimensionality of one structure",
		Long: `Classify one atomic structure by the dimensionality of its bonded network.

The input is a JSON document carrying the atoms' chemical species, Cartesian
(or fractional) positions, and an optional lattice with per-direction
periodicity flags:

  {
    "species": ["Na", "Cl"],
    "positions": [[0, 0, 0], [2.82, 0, 0]],
    "lattice": [[5.64, 0, 0], [0, 5.64, 0], [0, 0, 5.64]],
    "periodic": [true, true, true]
  }

Examples:
  matid classify nacl.json            # Boxed human-readable summary
  matid classify --json nacl.json     # Machine-readable result on stdout
  matid classify -p loose noisy.json  # Forgiving tolerance preset`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().Bool("json", false, "Emit the raw result as JSON")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("output.json", cmd.Flags().Lookup("json"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := loadStructure(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.LoadClassifyConfig()
	if err != nil {
		return err
	}

	classifier := classify.New(spglib.New(), cfg, slog.Default())
	defer classifier.Close()

	result, err := classifier.Classify(ctx, s)
	if err != nil {
		return fmt.Errorf("classifying %s: %w", args[0], err)
	}

	if viper.GetBool("output.json") {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	fmt.Println(cli.RenderResult(filepath.Base(args[0]), result))
	return nil
}
