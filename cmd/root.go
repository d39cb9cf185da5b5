package cmd

import (
	"fmt"
	"os"

	"prompt-console/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "prompt-console",
	Short: "Prompt Console Service",
	Long: `Prompt Console is the admin backend for the prompt sharing product.
It serves the device admission API and runs data reconciliation sweeps.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format at debug level: ISO8601 timestamps and colors, which
		// is what a CLI user expects for a failure.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
