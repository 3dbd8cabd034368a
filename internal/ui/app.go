package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/catalog"
	"github.com/onlybigcars/carbook/internal/kvstore"
	"github.com/onlybigcars/carbook/internal/prefs"
	"github.com/onlybigcars/carbook/internal/selection"
	"github.com/onlybigcars/carbook/internal/state"
	"github.com/onlybigcars/carbook/internal/wizard"
)

// Screen is the active top-level view.
type Screen int

const (
	ScreenWizard Screen = iota
	ScreenListing
)

// Storefront is the session state the UI reads and drives.
type Storefront interface {
	Selection() selection.Selection
	Listing() state.Snapshot
	Categories() []catalog.Category
	Category() string
	SetCategory(slug string)
	Refresh()
	ClearCar(ctx context.Context) error
	Reconcile(ctx context.Context) error
}

// Chooser runs the car selection steps.
type Chooser interface {
	ChooseCity(city string) error
	ChooseBrand(brand string) error
	ChooseModel(model string) error
	ChooseFuel(fuel string) (selection.Selection, error)
}

// Options configures the UI.
type Options struct {
	Storefront Storefront
	Wizard     Chooser
	Prefs      kvstore.Store
	ThemeName  string
	PollTick   time.Duration
	Logger     *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	store    Storefront
	wiz      Chooser
	prefs    kvstore.Store
	logger   *zap.Logger
	pollTick time.Duration

	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool
	screen Screen

	sel        selection.Selection
	snapshot   state.Snapshot
	categories []catalog.Category
	category   string

	// Wizard state
	step       wizard.Step
	changing   bool // wizard opened from the listing
	wizCursor  int
	filter     textinput.Model
	wizardErr  string
	spinner    spinner.Model
	serviceRow int

	showHelp bool
	flash    string
}

// New creates a new Bubble Tea model.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = 250 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	themeName := opts.ThemeName
	saved := prefs.Load(ctx, opts.Prefs)
	if opts.Prefs != nil {
		if _, ok, _ := opts.Prefs.Get(ctx, prefs.Key); ok {
			themeName = saved.Theme
		}
	}

	filter := textinput.New()
	filter.Placeholder = "Type to filter"
	filter.Prompt = "/ "
	filter.CharLimit = 64
	filter.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		store:    opts.Storefront,
		wiz:      opts.Wizard,
		prefs:    opts.Prefs,
		logger:   logger,
		pollTick: pollTick,
		theme:    GetTheme(themeName),
		keys:     DefaultKeyMap(),
		filter:   filter,
		spinner:  spin,
	}
	if saved.Category != "" && m.store != nil {
		m.store.SetCategory(saved.Category)
	}
	m.refreshFromStore()
	if wizard.NextStep(m.sel) == wizard.StepDone {
		m.screen = ScreenListing
	} else {
		m.openWizard(wizard.NextStep(m.sel), false)
	}
	return m
}

// Screen returns the active screen.
func (m Model) Screen() Screen { return m.screen }

// Step returns the wizard step shown when the wizard screen is active.
func (m Model) Step() wizard.Step { return m.step }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		m.refreshFromStore()
		return m, tickCmd(m.pollTick)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.FocusMsg:
		return m, reconcileCmd(m.ctx, m.store)

	case reconciledMsg:
		if msg.err != nil {
			m.logger.Warn("Failed to reload car selection", zap.Error(msg.err))
			return m, nil
		}
		m.refreshFromStore()
		m.followSelection()
		return m, nil

	case clearedMsg:
		if msg.err != nil {
			m.flash = "Could not clear car: " + msg.err.Error()
			return m, nil
		}
		m.flash = ""
		m.refreshFromStore()
		m.openWizard(wizard.StepCity, false)
		return m, nil
	}

	if m.screen == ScreenWizard {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.screen == ScreenWizard {
		return m.renderWizard()
	}
	return m.renderListing()
}

// handleKey processes keyboard input for the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.screen == ScreenWizard {
		return m.handleWizardKey(msg)
	}
	return m.handleListingKey(msg)
}

func (m *Model) refreshFromStore() {
	if m.store == nil {
		return
	}
	m.sel = m.store.Selection()
	m.snapshot = m.store.Listing()
	m.categories = m.store.Categories()
	m.category = m.store.Category()
	if n := len(m.snapshot.Listing.Services); m.serviceRow >= n {
		m.serviceRow = max(n-1, 0)
	}
}

// followSelection moves between the wizard and the listing when the
// selection changed underneath the UI.
func (m *Model) followSelection() {
	next := wizard.NextStep(m.sel)
	switch {
	case m.screen == ScreenListing && next != wizard.StepDone:
		m.openWizard(next, false)
	case m.screen == ScreenWizard && !m.changing && next == wizard.StepDone:
		m.screen = ScreenListing
		m.serviceRow = 0
	case m.screen == ScreenWizard && !m.changing && next != m.step:
		m.openWizard(next, false)
	}
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.savePrefs()
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Category: m.category}
	if err := prefs.Save(m.ctx, m.prefs, p); err != nil {
		m.logger.Warn("Failed to save preferences", zap.Error(err))
	}
}

// Messages

type tickMsg time.Time

type clearedMsg struct{ err error }

type reconciledMsg struct{ err error }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearCarCmd(ctx context.Context, store Storefront) tea.Cmd {
	return func() tea.Msg {
		return clearedMsg{err: store.ClearCar(ctx)}
	}
}

// reconcileCmd reloads the persisted selection, which another carbook
// process may have changed while the terminal was unfocused, and schedules a
// listing refresh.
func reconcileCmd(ctx context.Context, store Storefront) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		err := store.Reconcile(ctx)
		if err == nil {
			store.Refresh()
		}
		return reconciledMsg{err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	m := New(ctx, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
