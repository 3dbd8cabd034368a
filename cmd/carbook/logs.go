package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/onlybigcars/carbook/internal/logging"
	"github.com/onlybigcars/carbook/internal/logtail"
)

var (
	logLines int
	logLevel string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the end of the carbook log file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Log.File == "" {
			return fmt.Errorf("log.file is not set; carbook is logging to stderr")
		}
		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		lines, err := logtail.Tail(cfg.Log.File, logLines, level)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, line := range lines {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", 50, "number of lines to read from the end")
	logsCmd.Flags().StringVar(&logLevel, "level", "debug", "minimum level to show")
}
