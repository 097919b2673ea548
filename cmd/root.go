// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tyto",
	Short: "Tyto - Ethernet frame ingestion and validation agent",
	Long: `Tyto reconstructs discrete Ethernet frames from a continuous octet
stream, verifies their integrity and policy compliance, and produces
per-frame accept/discard verdicts plus aggregate statistics.

Pipeline:
  raw link symbols -> stream synchronizer -> domain-crossing queue
  -> frame validator (CRC-32, VLAN/size policy) -> statistics`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "/etc/tyto/config.yml",
		"config file path")
}

// exitWithError prints error message and exits with code 1
func exitWithError(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	}
	os.Exit(1)
}
