package cmd

import (
	"fmt"
	"os"

	"quiz-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var outputFormat string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "quiz-manager",
	Short: "Quiz Manager Service",
	Long: `Quiz Manager edits quiz variants against the quiz backend and runs
item-to-variant matching games over its REST API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level gives readable ISO8601 timestamps for CLI errors
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

func init() {
	RootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")
}
