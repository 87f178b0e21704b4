package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"prover/internal/script"
	"prover/internal/theory"
)

var checkCmd = &cobra.Command{
	Use:   "check <script.toml>...",
	Short: "Parse proof scripts and resolve their tactics without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := expandScripts(args)
		if err != nil {
			return err
		}
		std := theory.Standard()
		failed := 0
		for _, p := range paths {
			s, err := script.Load(p)
			if err == nil {
				err = s.Check(std)
			}
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", p, err)
				continue
			}
			if !quiet(cmd) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d steps)\n", p, len(s.Steps))
			}
		}
		if failed > 0 {
			return errors.Newf("%d of %d scripts failed to check", failed, len(paths))
		}
		return nil
	},
}
