package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onlybigcars/carbook/internal/wizard"
)

const wizardSteps = 4

// openWizard shows the wizard at step. changing marks a car change started
// from the listing, which esc on the first step returns to.
func (m *Model) openWizard(step wizard.Step, changing bool) {
	m.screen = ScreenWizard
	m.step = step
	m.changing = changing
	m.resetWizardInput()
}

func (m *Model) resetWizardInput() {
	m.wizCursor = 0
	m.wizardErr = ""
	m.filter.Reset()
	m.filter.Focus()
}

// stepOptions returns the choices for the current step. A nil result means
// free text is accepted.
func (m Model) stepOptions() []wizard.Option {
	switch m.step {
	case wizard.StepCity:
		return wizard.Cities
	case wizard.StepBrand:
		return wizard.Brands
	case wizard.StepModel:
		return wizard.Models(m.sel.Brand)
	case wizard.StepFuel:
		return wizard.Fuels
	default:
		return nil
	}
}

// visibleOptions filters the step options by the typed text.
func (m Model) visibleOptions() []wizard.Option {
	return filterOptions(m.stepOptions(), m.filter.Value())
}

func filterOptions(opts []wizard.Option, query string) []wizard.Option {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return opts
	}
	var out []wizard.Option
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Name), query) {
			out = append(out, o)
		}
	}
	return out
}

func (m Model) handleWizardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	opts := m.visibleOptions()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.stepBack()
		return m, nil
	case msg.Type == tea.KeyUp:
		if m.wizCursor > 0 {
			m.wizCursor--
		}
		return m, nil
	case msg.Type == tea.KeyDown:
		if m.wizCursor < len(opts)-1 {
			m.wizCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		choice := strings.TrimSpace(m.filter.Value())
		if len(opts) > 0 {
			choice = opts[min(m.wizCursor, len(opts)-1)].Name
		}
		m.choose(choice)
		return m, nil
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.wizCursor = 0
	}
	return m, cmd
}

// choose applies one wizard step and advances.
func (m *Model) choose(choice string) {
	if m.wiz == nil {
		return
	}
	if choice == "" {
		m.wizardErr = "Pick an option or type a name"
		return
	}
	var err error
	switch m.step {
	case wizard.StepCity:
		err = m.wiz.ChooseCity(choice)
	case wizard.StepBrand:
		err = m.wiz.ChooseBrand(choice)
	case wizard.StepModel:
		err = m.wiz.ChooseModel(choice)
	case wizard.StepFuel:
		_, err = m.wiz.ChooseFuel(choice)
	}
	if err != nil {
		m.wizardErr = wizardErrorText(err)
		return
	}
	m.refreshFromStore()
	if m.step == wizard.StepFuel {
		m.screen = ScreenListing
		m.serviceRow = 0
		return
	}
	m.step++
	m.resetWizardInput()
}

func (m *Model) stepBack() {
	first := wizard.StepCity
	if m.changing {
		first = wizard.StepBrand
	}
	if m.step > first {
		m.step--
		m.resetWizardInput()
		return
	}
	if m.sel.IsComplete {
		m.screen = ScreenListing
	}
}

func wizardErrorText(err error) string {
	switch {
	case errors.Is(err, wizard.ErrUnknownBrand):
		return "Pick a brand from the list"
	case errors.Is(err, wizard.ErrUnknownModel):
		return "Pick a model from the list"
	case errors.Is(err, wizard.ErrStepOrder):
		return "Finish the previous step first"
	default:
		return "Invalid choice"
	}
}

func stepTitle(s wizard.Step) string {
	switch s {
	case wizard.StepCity:
		return "Select your city"
	case wizard.StepBrand:
		return "Select your car brand"
	case wizard.StepModel:
		return "Select your car model"
	case wizard.StepFuel:
		return "Select fuel type"
	default:
		return ""
	}
}

// renderWizard renders the current wizard step.
func (m Model) renderWizard() string {
	styles := m.theme.Styles()
	var b strings.Builder

	badge := styles.StatusStyle(statusIncomplete).Render(fmt.Sprintf("STEP %d/%d", int(m.step)+1, wizardSteps))
	header := styles.Logo.Render("carbook") + "  " + badge + "  " + styles.Text.Bold(true).Render(stepTitle(m.step))
	b.WriteString(styles.Header.Width(m.width).Render(header))
	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumb(styles))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	opts := m.visibleOptions()
	switch {
	case len(m.stepOptions()) == 0:
		b.WriteString(styles.MutedText.Render("Type a name and press enter"))
		b.WriteString("\n")
	case len(opts) == 0:
		b.WriteString(styles.MutedText.Render("No matches"))
		b.WriteString("\n")
	}

	rows := m.listHeight()
	start := 0
	if m.wizCursor >= rows {
		start = m.wizCursor - rows + 1
	}
	for i := start; i < len(opts) && i < start+rows; i++ {
		line := "  " + opts[i].Name
		if i == m.wizCursor {
			line = styles.Selected.Render("> " + opts[i].Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.wizardErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(m.wizardErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Footer.Render("enter choose  esc back  up/down move  ctrl+c quit"))
	return b.String()
}

// renderBreadcrumb shows what has been chosen so far.
func (m Model) renderBreadcrumb(styles Styles) string {
	parts := []string{}
	for _, v := range []string{m.sel.City, m.sel.Brand, m.sel.Model} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(styles.MutedText.Render(strings.Join(parts, " › ")))
}

func (m Model) listHeight() int {
	h := m.height - 10
	if h < 3 {
		return 3
	}
	return h
}
