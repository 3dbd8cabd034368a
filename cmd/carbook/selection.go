package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/app"
	"github.com/onlybigcars/carbook/internal/selection"
)

var (
	setCity  string
	setBrand string
	setModel string
	setFuel  string
)

var selectionCmd = &cobra.Command{
	Use:   "selection",
	Short: "Show or change the saved car selection",
}

var selectionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved car selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		fmt.Fprintln(cmd.OutOrStdout(), renderSelection(s.Selection()))
		return nil
	},
}

var selectionSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the car selection without the interactive wizard",
	Example: `  carbook selection set --city Gurugram --brand Honda --model City --fuel Petrol
  carbook selection set --city Delhi`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if setCity == "" && setBrand == "" && setModel == "" && setFuel == "" {
			return fmt.Errorf("nothing to set: pass --city, --brand, --model or --fuel")
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		if err := s.RequireLogin(cmd.Context()); err != nil {
			return err
		}
		w := s.Wizard()
		if setCity != "" {
			if err := w.ChooseCity(setCity); err != nil {
				return err
			}
		}
		if setBrand != "" {
			if err := w.ChooseBrand(setBrand); err != nil {
				return err
			}
		}
		if setModel != "" {
			if err := w.ChooseModel(setModel); err != nil {
				return err
			}
		}
		if setFuel != "" {
			if _, err := w.ChooseFuel(setFuel); err != nil {
				return err
			}
		}

		sel := s.Selection()
		out := cmd.OutOrStdout()
		if !sel.IsComplete {
			fmt.Fprintln(out, renderSelection(sel))
			fmt.Fprintln(out, "Selection incomplete: brand, model and fuel are needed before it is saved.")
			return nil
		}
		if err := s.Synchronizer().Persist(cmd.Context(), sel); err != nil {
			return err
		}
		fmt.Fprintln(out, renderSelection(sel))
		return nil
	},
}

var selectionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved car selection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		if err := s.ClearCar(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Car selection cleared.")
		return nil
	},
}

func init() {
	selectionSetCmd.Flags().StringVar(&setCity, "city", "", "city name")
	selectionSetCmd.Flags().StringVar(&setBrand, "brand", "", "car brand")
	selectionSetCmd.Flags().StringVar(&setModel, "model", "", "car model")
	selectionSetCmd.Flags().StringVar(&setFuel, "fuel", "", "fuel type (Petrol, Diesel, CNG, Electric, Hybrid, LPG)")
}

func renderSelection(sel selection.Selection) string {
	label, ok := selection.PricingContext(sel)
	if !ok {
		label = sel.DisplayText()
	}
	rows := [][]string{
		{"car", label},
		{"city", orDash(sel.City)},
		{"complete", fmt.Sprintf("%t", sel.IsComplete)},
		{"fingerprint", selection.Fingerprint(sel)},
		{"query", orDash(selection.EncodeQuery(selection.QueryParams(sel)))},
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Rows(rows...).
		String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func openSession(cmd *cobra.Command) (*app.Session, error) {
	return app.Open(cmd.Context(), cfg, logger)
}

func closeSession(s *app.Session) {
	if err := s.Close(); err != nil {
		logger.Warn("Failed to close store", zap.Error(err))
	}
}
