package cmd

import (
	"log/slog"

	"github.com/gaze-network/tokensale/internal/config"
	"github.com/gaze-network/tokensale/pkg/logger"
	"github.com/gaze-network/tokensale/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

var cmd = &cobra.Command{
	Use:  "tokensale",
	Long: `Token sale ledger service: tiered sale, vesting schedules, referral rewards and treasury pools.`,
}

func init() {
	var configFile string

	// Add global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g.  `./config.yaml`")

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		config := config.Parse(configFile)

		if err := logger.Init(config.Logger); err != nil {
			logger.Panic("Failed to initialize logger: %v", slogx.Error(err), slog.Any("config", config.Logger))
		}
	})
}

func Execute() {
	cmd.AddCommand(
		NewRunCommand(),
		NewVersionCommand(),
		NewMigrateCommand(),
	)

	if err := cmd.Execute(); err != nil {
		logger.Panic("Failed to execute root command")
	}
}
