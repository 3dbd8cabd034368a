package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/catalogd"
)

var catalogdRelease bool

var catalogdCmd = &cobra.Command{
	Use:   "catalogd",
	Short: "Run the development services and pricing API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := cfg.Catalogd
		srv, err := catalogd.New(catalogd.Config{
			Listen:         c.Listen,
			TokenSecret:    c.TokenSecret,
			AllowedOrigins: c.AllowedOrigins,
			FixedOTP:       c.FixedOTP,
			Release:        catalogdRelease,
		}, catalogd.DefaultCatalog(), logger)
		if err != nil {
			return err
		}
		logger.Info("catalogd starting", zap.String("listen", c.Listen))
		return srv.Serve(cmd.Context())
	},
}

func init() {
	catalogdCmd.Flags().BoolVar(&catalogdRelease, "release", false, "run gin in release mode")
}
