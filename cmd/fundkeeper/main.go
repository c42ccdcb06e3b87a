package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/mmynk/fundkeeper/internal/config"
	"github.com/mmynk/fundkeeper/pkg/logging"
)

const (
	programName = "fundkeeper"
)

func slogPrintf(format string, v ...any) {
	slog.Debug(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

var configFile string

// commonRun returns the configuration stored by the root pre-run hook along
// with the process logger.
func commonRun(cmd *cobra.Command) (*config.Config, *slog.Logger) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		slog.Error("no config found in context")
		os.Exit(1)
	}
	return cfg, slog.Default()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Shared fund tracker with a live document server",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to config file")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logging.Setup(cfg.LogLevel, cfg.LogFormat)

		// Configure max processes with our logger wrapper, toss undo func
		if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
			return fmt.Errorf("failed to set GOMAXPROCS: %w", err)
		}

		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	}

	// Server side
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(tokenCommand())
	rootCmd.AddCommand(grantAdminCommand())

	// Client side
	rootCmd.AddCommand(watchCommand())
	rootCmd.AddCommand(ledgerCommands()...)
	rootCmd.AddCommand(memberCommands()...)

	if err := rootCmd.Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
