package main

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/statuskit/status"
)

// ErrCollectorsFailed is returned when at least one collector failed.
// The returned error causes Cobra to exit with code 1.
var ErrCollectorsFailed = errors.New("collectors failed")

var (
	runTimeout     time.Duration
	runConcurrency int
	runJSON        bool
)

var runCmd = &cobra.Command{
	Use:   "run [pattern]",
	Short: "Run the collectors matching a glob pattern",
	Long:  "Run the collectors whose names match the glob pattern ('*' any run, '?' one character). Without a pattern every collector runs.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Second, "per-collector timeout")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "maximum collectors running at once (0 = unbounded)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print envelopes as JSON")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	pattern := ""
	if len(args) == 1 {
		pattern = args[0]
	}

	reg, err := buildRegistry(runTimeout)
	if err != nil {
		return err
	}

	eng := status.NewEngine(status.EngineConfig{
		MaxConcurrency: runConcurrency,
		Timeout:        runTimeout,
	})
	envs, err := eng.Execute(cmd.Context(), reg, pattern)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(envs); err != nil {
			return err
		}
	} else {
		for _, env := range envs {
			printEnvelope(out, env)
		}
	}

	if !status.AllSucceeded(envs) {
		cmd.SilenceUsage = true
		return ErrCollectorsFailed
	}
	return nil
}
