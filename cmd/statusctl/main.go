// Command statusctl runs status collectors from the command line.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "statusctl",
	Short:   "Run status collectors and report their outcome",
	Long:    "statusctl registers the built-in runtime probes plus any --tcp and --http targets, then lists or runs them.",
	Version: Version,
}

var (
	tcpTargets  map[string]string
	httpTargets map[string]string
)

func init() {
	rootCmd.PersistentFlags().StringToStringVar(&tcpTargets, "tcp", nil, "TCP target as name=host:port (repeatable)")
	rootCmd.PersistentFlags().StringToStringVar(&httpTargets, "http", nil, "HTTP target as name=url (repeatable)")
}
