package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"prover/internal/batch"
	"prover/internal/theory"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] [script.toml|dir]...",
	Short: "Replay many proof scripts concurrently",
	Long: `Replay proof scripts concurrently, one forest per script. Without
arguments the scripts listed under [session].scripts in prover.toml are used.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntP("jobs", "j", 0, "scripts to run in parallel (0: config or GOMAXPROCS)")
	batchCmd.Flags().String("snapshots", "", "directory for per-script forest snapshots")
	batchCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	batchCmd.Flags().Bool("fail-fast", false, "cancel remaining scripts after the first failure")
	batchCmd.Flags().Int("max-steps", 0, "per-script step limit (0: config or unlimited)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = app.cfg.Session.Scripts
	}
	if len(args) == 0 {
		return errors.WithHint(errors.New("no scripts given"),
			"pass script files or directories, or list them under [session].scripts")
	}
	paths, err := expandScripts(args)
	if err != nil {
		return err
	}
	mode, err := readUIMode(mustString(cmd, "ui"))
	if err != nil {
		return err
	}

	req := batch.Request{
		Paths:       paths,
		Jobs:        app.cfg.Session.Jobs,
		MaxSteps:    app.cfg.Session.MaxSteps,
		Theorems:    theory.Standard(),
		Logger:      logger(),
		SnapshotDir: app.cfg.Session.Snapshots,
	}
	if cmd.Flags().Changed("jobs") {
		req.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if cmd.Flags().Changed("max-steps") {
		req.MaxSteps, _ = cmd.Flags().GetInt("max-steps")
	}
	if cmd.Flags().Changed("snapshots") {
		req.SnapshotDir = mustString(cmd, "snapshots")
	}
	req.FailFast, _ = cmd.Flags().GetBool("fail-fast")

	var outs []batch.Outcome
	if shouldUseTUI(mode) && !quiet(cmd) {
		outs, err = runBatchWithUI(cmd.Context(), "proving", req)
	} else {
		outs, err = batch.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}
	return summarize(cmd.OutOrStdout(), outs, quiet(cmd))
}

func summarize(w io.Writer, outs []batch.Outcome, quiet bool) error {
	proven, failed := 0, 0
	for _, o := range outs {
		status := "open"
		switch {
		case o.Err != nil:
			status = "error"
			failed++
		case o.Proven():
			status = "proven"
			proven++
		}
		if !quiet || o.Err != nil {
			fmt.Fprintf(w, "%-6s %8s  %s", status, o.Elapsed.Round(time.Millisecond), o.Path)
			if o.Err != nil {
				fmt.Fprintf(w, ": %v", o.Err)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "%d/%d proven, %d failed\n", proven, len(outs), failed)
	if failed > 0 {
		return errors.Newf("%d scripts failed", failed)
	}
	return nil
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
