package main

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"prover/internal/forest"
	"prover/internal/render"
	"prover/internal/script"
	"prover/internal/theory"
)

var showCmd = &cobra.Command{
	Use:   "show [flags] <snapshot.forest>",
	Short: "Print a saved forest snapshot, or the theorem catalog with --theorems",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Bool("theorems", false, "list registered theorems instead of a forest")
	showCmd.Flags().String("script", "", "with --theorems: include lemmas declared by this script")
	showCmd.Flags().Bool("goals", false, "print full goals under each node")
	showCmd.Flags().Int("width", 0, "truncate lines to this width (plain output only)")
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if theorems, _ := cmd.Flags().GetBool("theorems"); theorems {
		reg := theory.Standard()
		if path, _ := cmd.Flags().GetString("script"); path != "" {
			s, err := script.Load(path)
			if err != nil {
				return err
			}
			if reg, err = s.Registry(reg); err != nil {
				return err
			}
		}
		return render.Theorems(out, reg, useColor(cmd))
	}
	if len(args) == 0 {
		return errors.WithHint(errors.New("missing snapshot path"),
			"write one with `prover run --save out.forest script.toml`")
	}
	f, err := forest.Load(args[0], forest.WithLogger(logger()))
	if err != nil {
		return err
	}
	goals, _ := cmd.Flags().GetBool("goals")
	width, _ := cmd.Flags().GetInt("width")
	return render.Forest(out, f, render.Options{Color: useColor(cmd), Goals: goals, Width: width})
}
