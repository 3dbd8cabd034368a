package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/onlybigcars/carbook/internal/app"
	"github.com/onlybigcars/carbook/internal/catalog"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List service categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		if err := s.LoadCategories(cmd.Context()); err != nil {
			return err
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("SLUG", "NAME", "SERVICES")
		for _, c := range s.Categories() {
			t.Row(c.Slug, c.Name, fmt.Sprintf("%d", len(c.Services)))
		}
		fmt.Fprintln(cmd.OutOrStdout(), t.String())
		return nil
	},
}

var servicesCmd = &cobra.Command{
	Use:   "services [category-slug]",
	Short: "List services priced for the saved car",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer closeSession(s)

		slug := app.DefaultCategory
		if len(args) == 1 {
			slug = args[0]
		}
		s.SetCategory(slug)
		snap, err := s.FetchListing(cmd.Context(), s.Selection())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		listing := snap.Listing
		fmt.Fprintf(out, "%s\n", listing.Category.Name)
		if listing.Pricing.HasRealPricing {
			fmt.Fprintf(out, "Prices for %s\n", s.Selection().DisplayText())
		} else {
			fmt.Fprintln(out, "Base prices (select a car for exact pricing)")
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("SERVICE", "PRICE", "DURATION", "INCLUDES")
		for _, svc := range listing.Services {
			price := "-"
			if raw, ok := svc.EffectivePrice(); ok {
				price = catalog.FormatPrice(raw)
			}
			t.Row(svc.Header, price, svc.Duration, strings.Join(svc.DetailsList, ", "))
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}
