package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"firestige.xyz/tyto/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and check structural
invariants (for example an inverted frame size window), then print the
effective configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configFile)
		if err != nil {
			exitWithError("invalid configuration", err)
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			exitWithError("failed to render effective config", err)
		}

		fmt.Printf("Configuration OK: %s\n\n%s", configFile, out)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
