package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/app"
	"github.com/onlybigcars/carbook/internal/config"
	"github.com/onlybigcars/carbook/internal/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "carbook",
	Short: "Book car services priced for your car",
	Long: `carbook keeps your car selection (city, brand, model, fuel) in a local
store and lists workshop services priced for that car.

Run without arguments to start the interactive storefront.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err = logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File, Verbose: verbose})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunTUI(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/carbook/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	selectionCmd.AddCommand(selectionShowCmd)
	selectionCmd.AddCommand(selectionSetCmd)
	selectionCmd.AddCommand(selectionClearCmd)

	rootCmd.AddCommand(selectionCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(servicesCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(catalogdCmd)
	rootCmd.AddCommand(logsCmd)
}
