package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"prover/internal/render"
	"prover/internal/script"
	"prover/internal/tactic"
	"prover/internal/theory"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <script.toml>",
	Short: "Replay a proof script and print the resulting forest",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func init() {
	runCmd.Flags().String("save", "", "write a forest snapshot to this file")
	runCmd.Flags().Int("max-steps", 0, "stop after this many steps (0: config or unlimited)")
	runCmd.Flags().Bool("goals", false, "print full goals under each node")
	runCmd.Flags().Bool("proofs", false, "print the proof terms recorded by closing tactics")
}

var errNotProven = errors.New("goal not proven")

func runScript(cmd *cobra.Command, args []string) error {
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	maxSteps, _ := cmd.Flags().GetInt("max-steps")
	if !cmd.Flags().Changed("max-steps") {
		maxSteps = app.cfg.Session.MaxSteps
	}
	savePath, _ := cmd.Flags().GetString("save")
	goals, _ := cmd.Flags().GetBool("goals")
	proofs, _ := cmd.Flags().GetBool("proofs")

	rules := &tactic.RuleLog{}
	res, runErr := s.Run(cmd.Context(), script.RunOptions{
		Logger:     logger(),
		Theorems:   theory.Standard(),
		Foundation: rules,
		MaxSteps:   maxSteps,
	})
	if res == nil {
		return runErr
	}

	out := cmd.OutOrStdout()
	if !quiet(cmd) {
		for _, st := range res.Steps {
			fmt.Fprintln(out, st.String())
		}
		fmt.Fprintln(out)
		if err := render.Forest(out, res.Forest, render.Options{Color: useColor(cmd), Goals: goals}); err != nil {
			return err
		}
		if proofs {
			for _, r := range rules.Rules {
				fmt.Fprintln(out, "rule:", r)
			}
		}
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
	}
	if savePath != "" {
		if err := res.Forest.Save(savePath); err != nil {
			return err
		}
		if !quiet(cmd) {
			fmt.Fprintf(os.Stderr, "snapshot written to %s\n", savePath)
		}
	}
	if runErr != nil {
		return runErr
	}
	if !res.Proven {
		return errors.WithHintf(errors.Wrapf(errNotProven, "%s", s.Name),
			"%d goals remain open", len(res.Forest.OpenGoals()))
	}
	return nil
}
