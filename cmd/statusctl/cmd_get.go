package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/statuskit/status"
)

var (
	getTimeout time.Duration
	getJSON    bool
)

var getCmd = &cobra.Command{
	Use:   "get NAME",
	Short: "Run one collector by its exact name",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	getCmd.Flags().DurationVar(&getTimeout, "timeout", 10*time.Second, "collector timeout")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "print the envelope as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(getTimeout)
	if err != nil {
		return err
	}

	eng := status.NewEngine(status.EngineConfig{Timeout: getTimeout})
	env, err := eng.InvokeByName(cmd.Context(), reg, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if getJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return err
		}
	} else {
		printEnvelope(out, env)
	}

	if !env.Success {
		cmd.SilenceUsage = true
		return ErrCollectorsFailed
	}
	return nil
}
