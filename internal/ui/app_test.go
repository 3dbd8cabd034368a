package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onlybigcars/carbook/internal/catalog"
	"github.com/onlybigcars/carbook/internal/kvstore"
	"github.com/onlybigcars/carbook/internal/prefs"
	"github.com/onlybigcars/carbook/internal/selection"
	"github.com/onlybigcars/carbook/internal/state"
	"github.com/onlybigcars/carbook/internal/wizard"
)

type fakeStorefront struct {
	c          *selection.Container
	snap       state.Snapshot
	categories []catalog.Category
	category   string
	refreshes  int
	clearErr   error

	// persisted is what Reconcile loads, as if another process wrote it.
	persisted    *selection.Selection
	reconciles   int
	reconcileErr error
}

func newFakeStorefront(sel selection.Selection) *fakeStorefront {
	return &fakeStorefront{
		c:        selection.NewContainer(sel),
		category: "car-service",
		categories: []catalog.Category{
			{Name: "Car Service", Slug: "car-service"},
			{Name: "AC Service", Slug: "ac-service"},
			{Name: "Denting Painting", Slug: "denting-painting"},
		},
	}
}

func (f *fakeStorefront) Selection() selection.Selection { return f.c.State() }
func (f *fakeStorefront) Listing() state.Snapshot        { return f.snap }
func (f *fakeStorefront) Categories() []catalog.Category { return f.categories }
func (f *fakeStorefront) Category() string               { return f.category }
func (f *fakeStorefront) SetCategory(slug string)        { f.category = slug }
func (f *fakeStorefront) Refresh()                       { f.refreshes++ }
func (f *fakeStorefront) ClearCar(ctx context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.c.Dispatch(selection.Clear{})
	return nil
}

func (f *fakeStorefront) Reconcile(ctx context.Context) error {
	f.reconciles++
	if f.reconcileErr != nil {
		return f.reconcileErr
	}
	if f.persisted != nil {
		f.c.Dispatch(selection.LoadFromStore{Selection: *f.persisted})
	}
	return nil
}

var hondaCity = selection.Selection{
	City: "Gurugram", Brand: "Honda", Model: "City", Fuel: "Petrol", IsComplete: true,
}

func newTestModel(t *testing.T, sel selection.Selection) (Model, *fakeStorefront, kvstore.Store) {
	t.Helper()
	store := newFakeStorefront(sel)
	kv := kvstore.NewMemory()
	m := New(context.Background(), Options{
		Storefront: store,
		Wizard:     wizard.New(store.c),
		Prefs:      kv,
	})
	m = send(m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, store, kv
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func typeText(m Model, s string) Model {
	return send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m Model, t tea.KeyType) Model {
	return send(m, tea.KeyMsg{Type: t})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNew_StartsWizardForIncompleteSelection(t *testing.T) {
	m, _, _ := newTestModel(t, selection.Selection{City: "Delhi"})
	if m.Screen() != ScreenWizard {
		t.Fatalf("Screen = %v, want wizard", m.Screen())
	}
	if m.Step() != wizard.StepBrand {
		t.Fatalf("Step = %v, want brand", m.Step())
	}
}

func TestNew_StartsListingForCompleteSelection(t *testing.T) {
	m, _, _ := newTestModel(t, hondaCity)
	if m.Screen() != ScreenListing {
		t.Fatalf("Screen = %v, want listing", m.Screen())
	}
}

func TestWizardFlowCompletesSelection(t *testing.T) {
	m, store, _ := newTestModel(t, selection.Selection{})

	m = typeText(m, "guru")
	m = press(m, tea.KeyEnter)
	if m.Step() != wizard.StepBrand {
		t.Fatalf("after city Step = %v, want brand", m.Step())
	}
	m = typeText(m, "hond")
	m = press(m, tea.KeyEnter)
	if m.Step() != wizard.StepModel {
		t.Fatalf("after brand Step = %v, want model", m.Step())
	}
	m = typeText(m, "city")
	m = press(m, tea.KeyEnter)
	m = typeText(m, "pet")
	m = press(m, tea.KeyEnter)

	if m.Screen() != ScreenListing {
		t.Fatalf("Screen = %v, want listing", m.Screen())
	}
	got := store.c.State()
	want := selection.Selection{
		City: "Gurugram", Brand: "Honda", Model: "City", Fuel: "Petrol", IsComplete: true,
	}
	got.BrandLogo, got.ModelImage, got.FuelImage = "", "", ""
	if got != want {
		t.Fatalf("selection = %+v, want %+v", got, want)
	}
}

func TestWizardCursorPicksHighlightedOption(t *testing.T) {
	m, store, _ := newTestModel(t, selection.Selection{})

	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyDown)
	m = press(m, tea.KeyEnter)

	if got := store.c.State().City; got != wizard.Cities[2].Name {
		t.Fatalf("City = %q, want %q", got, wizard.Cities[2].Name)
	}
}

func TestWizardAcceptsUnlistedCity(t *testing.T) {
	m, store, _ := newTestModel(t, selection.Selection{})

	m = typeText(m, "Shimla")
	m = press(m, tea.KeyEnter)

	if got := store.c.State().City; got != "Shimla" {
		t.Fatalf("City = %q, want Shimla", got)
	}
	if m.Step() != wizard.StepBrand {
		t.Fatalf("Step = %v, want brand", m.Step())
	}
}

func TestWizardRejectsUnknownBrand(t *testing.T) {
	m, store, _ := newTestModel(t, selection.Selection{City: "Delhi"})

	m = typeText(m, "Zzyzx")
	m = press(m, tea.KeyEnter)

	if m.Step() != wizard.StepBrand {
		t.Fatalf("Step = %v, want brand", m.Step())
	}
	if m.wizardErr == "" {
		t.Fatalf("expected an error message")
	}
	if got := store.c.State().Brand; got != "" {
		t.Fatalf("Brand = %q, want empty", got)
	}
	if !strings.Contains(m.View(), m.wizardErr) {
		t.Fatalf("View does not show %q", m.wizardErr)
	}
}

func TestWizardEscGoesBack(t *testing.T) {
	m, _, _ := newTestModel(t, selection.Selection{City: "Delhi", Brand: "Honda"})
	if m.Step() != wizard.StepModel {
		t.Fatalf("Step = %v, want model", m.Step())
	}
	m = press(m, tea.KeyEsc)
	if m.Step() != wizard.StepBrand {
		t.Fatalf("Step = %v, want brand", m.Step())
	}
}

func TestChangeCarAndBackReturnsToListing(t *testing.T) {
	m, _, _ := newTestModel(t, hondaCity)

	m = send(m, runeKey('c'))
	if m.Screen() != ScreenWizard || m.Step() != wizard.StepBrand {
		t.Fatalf("after c: screen %v step %v, want wizard/brand", m.Screen(), m.Step())
	}
	m = press(m, tea.KeyEsc)
	if m.Screen() != ScreenListing {
		t.Fatalf("Screen = %v, want listing", m.Screen())
	}
}

func TestClearCarRestartsWizard(t *testing.T) {
	m, store, _ := newTestModel(t, hondaCity)

	next, cmd := m.Update(runeKey('x'))
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected clear command")
	}
	m = send(m, cmd())

	if m.Screen() != ScreenWizard || m.Step() != wizard.StepCity {
		t.Fatalf("screen %v step %v, want wizard/city", m.Screen(), m.Step())
	}
	if !store.c.State().Empty() {
		t.Fatalf("selection = %+v, want empty", store.c.State())
	}
}

func TestClearCarFailureStaysOnListing(t *testing.T) {
	m, store, _ := newTestModel(t, hondaCity)
	store.clearErr = errors.New("disk full")

	next, cmd := m.Update(runeKey('x'))
	m = send(next.(Model), cmd())

	if m.Screen() != ScreenListing {
		t.Fatalf("Screen = %v, want listing", m.Screen())
	}
	if !strings.Contains(m.flash, "disk full") {
		t.Fatalf("flash = %q, want it to mention the error", m.flash)
	}
}

func TestCategoryTabsSwitchAndPersist(t *testing.T) {
	m, store, kv := newTestModel(t, hondaCity)

	m = press(m, tea.KeyTab)
	if store.category != "ac-service" {
		t.Fatalf("category = %q, want ac-service", store.category)
	}
	m = press(m, tea.KeyShiftTab)
	m = press(m, tea.KeyShiftTab)
	if store.category != "denting-painting" {
		t.Fatalf("category = %q, want denting-painting", store.category)
	}
	if got := prefs.Load(context.Background(), kv).Category; got != "denting-painting" {
		t.Fatalf("saved category = %q, want denting-painting", got)
	}
	_ = m
}

func TestRefreshKey(t *testing.T) {
	m, store, _ := newTestModel(t, hondaCity)
	_ = send(m, runeKey('r'))
	if store.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", store.refreshes)
	}
}

func TestThemeCyclePersists(t *testing.T) {
	m, store, kv := newTestModel(t, hondaCity)

	m = send(m, runeKey('T'))
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}

	reopened := New(context.Background(), Options{Storefront: store, Wizard: wizard.New(store.c), Prefs: kv})
	if reopened.theme.Name != "Kanagawa" {
		t.Fatalf("reopened theme = %q, want Kanagawa", reopened.theme.Name)
	}
}

func TestListingViewShowsPrices(t *testing.T) {
	m, store, _ := newTestModel(t, hondaCity)
	brand, model := "Honda", "City"
	price := "2499.00"
	store.snap = state.Snapshot{
		HasListing:  true,
		LastUpdated: time.Now(),
		Listing: state.Listing{
			Slug:        "car-service",
			Fingerprint: selection.Fingerprint(hondaCity),
			Services: []catalog.Service{
				{Header: "Comprehensive Service", DisplayPrice: &price, DetailsList: []string{"Engine oil"}},
			},
			Pricing: catalog.PricingContext{Brand: &brand, Model: &model, HasRealPricing: true},
		},
	}
	m = send(m, tickMsg(time.Now()))

	view := m.View()
	for _, want := range []string{"Honda City", "Comprehensive Service", "₹2499", "LIVE", "Engine oil"} {
		if !strings.Contains(view, want) {
			t.Fatalf("View missing %q", want)
		}
	}
}

func TestListingStatus(t *testing.T) {
	fp := selection.Fingerprint(hondaCity)
	cases := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{"nothing yet", state.Snapshot{}, statusLoading},
		{"in flight", state.Snapshot{Loading: true, HasListing: true}, statusLoading},
		{"first fetch failed", state.Snapshot{LastError: errors.New("boom"), ConsecutiveFailures: 1}, statusError},
		{"offline", state.Snapshot{HasListing: true, ConsecutiveFailures: 2}, statusOffline},
		{"stale", state.Snapshot{HasListing: true, Listing: state.Listing{Fingerprint: selection.NoCarFingerprint}}, statusStale},
		{"live", state.Snapshot{HasListing: true, Listing: state.Listing{Fingerprint: fp, Pricing: catalog.PricingContext{HasRealPricing: true}}}, statusLive},
		{"base", state.Snapshot{HasListing: true, Listing: state.Listing{Fingerprint: fp}}, statusBase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := listingStatus(hondaCity, tc.snap); got != tc.want {
				t.Fatalf("listingStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHelpOverlayClosesOnAnyKey(t *testing.T) {
	m, _, _ := newTestModel(t, hondaCity)
	m = send(m, runeKey('?'))
	if !m.showHelp {
		t.Fatalf("help not shown")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	m = send(m, runeKey('j'))
	if m.showHelp {
		t.Fatalf("help still shown")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t, hondaCity)
	if _, cmd := m.Update(runeKey('q')); cmd == nil {
		t.Fatalf("q on listing returned no command")
	}

	w, _, _ := newTestModel(t, selection.Selection{})
	w = send(w, runeKey('q'))
	if w.filter.Value() != "q" {
		t.Fatalf("filter = %q, want q typed into the wizard", w.filter.Value())
	}
	_, cmd := w.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}

func regainFocus(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(tea.FocusMsg{})
	if cmd == nil {
		t.Fatal("FocusMsg returned no command")
	}
	msg := cmd()
	if _, ok := msg.(reconciledMsg); !ok {
		t.Fatalf("focus command returned %T, want reconciledMsg", msg)
	}
	return send(next.(Model), msg)
}

func TestFocusReloadsSelectionChangedElsewhere(t *testing.T) {
	m, store, _ := newTestModel(t, hondaCity)
	before := store.refreshes

	store.persisted = &selection.Selection{City: "Delhi"}
	m = regainFocus(t, m)

	if store.reconciles != 1 {
		t.Fatalf("reconciles = %d, want 1", store.reconciles)
	}
	if store.refreshes != before+1 {
		t.Fatalf("refreshes = %d, want %d", store.refreshes, before+1)
	}
	if m.Screen() != ScreenWizard {
		t.Fatalf("Screen = %v, want wizard", m.Screen())
	}
	if m.Step() != wizard.StepBrand {
		t.Fatalf("Step = %v, want brand", m.Step())
	}
}

func TestFocusCompletesWizardWithStoredCar(t *testing.T) {
	m, store, _ := newTestModel(t, selection.Selection{})
	if m.Screen() != ScreenWizard {
		t.Fatalf("Screen = %v, want wizard", m.Screen())
	}

	store.persisted = &hondaCity
	m = regainFocus(t, m)

	if m.Screen() != ScreenListing {
		t.Fatalf("Screen = %v, want listing", m.Screen())
	}
	if got := selection.Fingerprint(m.sel); got != "Honda-City-Petrol-Gurugram" {
		t.Fatalf("selection = %q, want Honda-City-Petrol-Gurugram", got)
	}
}

func TestFocusReconcileFailureKeepsScreen(t *testing.T) {
	m, store, _ := newTestModel(t, hondaCity)
	before := store.refreshes

	store.reconcileErr = errors.New("store down")
	m = regainFocus(t, m)

	if m.Screen() != ScreenListing {
		t.Fatalf("Screen = %v, want listing", m.Screen())
	}
	if store.refreshes != before {
		t.Fatalf("refreshes = %d, want %d", store.refreshes, before)
	}
}
