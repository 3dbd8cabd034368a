package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/onlybigcars/carbook/internal/catalog"
	"github.com/onlybigcars/carbook/internal/selection"
	"github.com/onlybigcars/carbook/internal/state"
	"github.com/onlybigcars/carbook/internal/wizard"
)

// Listing badge states.
const (
	statusLoading    = "loading"
	statusLive       = "live"
	statusBase       = "base"
	statusStale      = "stale"
	statusOffline    = "offline"
	statusError      = "error"
	statusIncomplete = "incomplete"
)

// listingStatus classifies the snapshot for the header badge.
func listingStatus(sel selection.Selection, snap state.Snapshot) string {
	switch {
	case snap.IsOffline():
		return statusOffline
	case snap.Loading:
		return statusLoading
	case !snap.HasListing && snap.LastError != nil:
		return statusError
	case !snap.HasListing:
		return statusLoading
	case snap.IsStale(selection.Fingerprint(sel)):
		return statusStale
	case snap.Listing.Pricing.HasRealPricing:
		return statusLive
	default:
		return statusBase
	}
}

func (m Model) handleListingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	services := m.snapshot.Listing.Services
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
	case key.Matches(msg, m.keys.Up):
		if m.serviceRow > 0 {
			m.serviceRow--
		}
	case key.Matches(msg, m.keys.Down):
		if m.serviceRow < len(services)-1 {
			m.serviceRow++
		}
	case key.Matches(msg, m.keys.Top):
		m.serviceRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.serviceRow = max(len(services)-1, 0)
	case key.Matches(msg, m.keys.NextCategory):
		m.switchCategory(1)
	case key.Matches(msg, m.keys.PrevCategory):
		m.switchCategory(-1)
	case key.Matches(msg, m.keys.Refresh):
		m.store.Refresh()
	case key.Matches(msg, m.keys.ChangeCar):
		m.openWizard(wizard.StepBrand, true)
	case key.Matches(msg, m.keys.ClearCar):
		m.flash = "Clearing car..."
		return m, clearCarCmd(m.ctx, m.store)
	}
	return m, nil
}

// switchCategory moves to the neighbouring category tab.
func (m *Model) switchCategory(delta int) {
	if len(m.categories) == 0 {
		return
	}
	idx := 0
	for i, c := range m.categories {
		if c.Slug == m.category {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.categories)) % len(m.categories)
	m.category = m.categories[idx].Slug
	m.serviceRow = 0
	m.store.SetCategory(m.category)
	m.savePrefs()
}

// renderListing renders the services screen.
func (m Model) renderListing() string {
	styles := m.theme.Styles()
	var b strings.Builder

	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")
	b.WriteString(m.renderTabs(styles))
	b.WriteString("\n\n")
	b.WriteString(m.renderPricingNote(styles))
	b.WriteString("\n\n")
	b.WriteString(m.renderServices(styles))

	if m.flash != "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(m.flash))
	}
	b.WriteString("\n")
	b.WriteString(styles.Footer.Render(shortHelp(m.keys)))
	return b.String()
}

func (m Model) renderHeader(styles Styles) string {
	status := listingStatus(m.sel, m.snapshot)
	badge := styles.StatusStyle(status).Render(strings.ToUpper(status))
	if status == statusLoading {
		badge = m.spinner.View() + " " + badge
	}

	parts := []string{
		styles.Logo.Render("carbook"),
		styles.Text.Bold(true).Render(m.sel.DisplayText()),
	}
	if m.sel.Fuel != "" {
		parts = append(parts, styles.MutedText.Render(m.sel.Fuel))
	}
	if m.sel.City != "" {
		parts = append(parts, styles.AccentText.Render(m.sel.City))
	}
	parts = append(parts, badge)
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render(humanizeDuration(time.Since(m.snapshot.LastUpdated))))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m Model) renderTabs(styles Styles) string {
	if len(m.categories) == 0 {
		return styles.ActiveTab.Render(m.category)
	}
	tabs := make([]string, 0, len(m.categories))
	for _, c := range m.categories {
		if c.Slug == m.category {
			tabs = append(tabs, styles.ActiveTab.Render(c.Name))
			continue
		}
		tabs = append(tabs, styles.Tab.Render(c.Name))
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderPricingNote(styles Styles) string {
	snap := m.snapshot
	switch {
	case snap.IsOffline():
		return styles.DangerText.Render(fmt.Sprintf("Cannot reach the pricing service (%d failed attempts). Retrying...", snap.ConsecutiveFailures))
	case !snap.HasListing && snap.LastError != nil:
		return styles.DangerText.Render("Failed to load services: " + snap.LastError.Error())
	case !snap.HasListing:
		return styles.MutedText.Render("Loading services...")
	case snap.Listing.Pricing.HasRealPricing:
		return styles.SuccessText.Render("Prices for " + pricingCar(snap.Listing.Pricing))
	case !m.sel.HasCar():
		return styles.WarningText.Render("Showing base prices. Press c to select your car for exact pricing.")
	default:
		return styles.MutedText.Render("Showing base prices for this category")
	}
}

func pricingCar(p catalog.PricingContext) string {
	var parts []string
	if p.Brand != nil {
		parts = append(parts, *p.Brand)
	}
	if p.Model != nil {
		parts = append(parts, *p.Model)
	}
	return strings.Join(parts, " ")
}

func (m Model) renderServices(styles Styles) string {
	services := m.snapshot.Listing.Services
	if !m.snapshot.HasListing {
		return ""
	}
	if len(services) == 0 {
		return styles.MutedText.Render("No services in this category")
	}

	var b strings.Builder
	nameWidth := max(m.width-24, 20)
	for i, svc := range services {
		price := "-"
		if raw, ok := svc.EffectivePrice(); ok {
			price = catalog.FormatPrice(raw)
		}
		name := truncate(svc.Header, nameWidth)
		line := fmt.Sprintf("%-*s %10s", nameWidth, name, price)
		if svc.IsFeatured {
			line += " *"
		}
		if i == m.serviceRow {
			b.WriteString(styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + styles.Text.Render(line))
		}
		b.WriteString("\n")
	}

	svc := services[m.serviceRow]
	b.WriteString("\n")
	if svc.Duration != "" {
		b.WriteString(styles.MutedText.Render("Takes " + svc.Duration))
		b.WriteString("\n")
	}
	for _, d := range svc.DetailsList {
		b.WriteString(styles.FaintText.Render("  • " + d))
		b.WriteString("\n")
	}
	return b.String()
}
