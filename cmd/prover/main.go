package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"prover/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "prover",
	Short: "Interactive proof-construction toolkit",
	Long: `prover replays proof scripts against a proof forest: goals, tactics,
rewrites with registered theorems, and a record of every step taken.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupSession,
}

func init() {
	rootCmd.Version = version.Collect().Version

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to prover.toml (default: search upward from the working directory)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.Bool("log-json", false, "write logs as JSON")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|session|step|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "", "trace format (auto|text|ndjson)")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")
	pf.Bool("timings", false, "show per-step timing information")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main executes the root command; any error exits with status 1.
func main() {
	err := rootCmd.Execute()
	teardownSession(err)
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) bool {
	flag, _ := cmd.Root().PersistentFlags().GetString("color")
	return flag == "on" || (flag == "auto" && isTerminal(os.Stdout))
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}
