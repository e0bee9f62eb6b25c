// Package cli implements the shinkansen command line tool: key generation,
// message signing, signature verification and message submission.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinkansenfinance/shinkansen-go/internal/logger"
	"github.com/shinkansenfinance/shinkansen-go/internal/version"
)

var (
	logLevel    string
	environment string
	appLogger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:               "shinkansen",
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	Short:             "Shinkansen payment network CLI",
	Long:              `CLI for signing, verifying and sending payin and payout messages on the Shinkansen network`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		appLogger = logger.InitLogger(logger.ParseLogLevel(logLevel), environment)
		slog.SetDefault(appLogger)
	},
}

func Execute() {
	v := version.Get()
	rootCmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&environment, "environment", "dev", "Environment name (dev, test, staging, prod)")
}
