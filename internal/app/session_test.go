package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/catalogd"
	"github.com/onlybigcars/carbook/internal/config"
	"github.com/onlybigcars/carbook/internal/kvstore"
	"github.com/onlybigcars/carbook/internal/persist"
	"github.com/onlybigcars/carbook/internal/selection"
	"github.com/onlybigcars/carbook/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	srv, err := catalogd.New(catalogd.Config{TokenSecret: "test-secret", FixedOTP: "123456"}, catalogd.DefaultCatalog(), zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	cfg := config.Default()
	cfg.API.BaseURL = ts.URL
	cfg.API.Timeout = 2 * time.Second
	cfg.Store = config.StoreConfig{Backend: kvstore.BackendMemory}
	cfg.Refetch.Debounce = 20 * time.Millisecond
	cfg.Refetch.Interval = 0
	return cfg
}

func chooseHondaCity(t *testing.T, s *Session) {
	t.Helper()
	w := s.Wizard()
	require.NoError(t, w.ChooseCity("Gurugram"))
	require.NoError(t, w.ChooseBrand("Honda"))
	require.NoError(t, w.ChooseModel("City"))
	_, err := w.ChooseFuel("Petrol")
	require.NoError(t, err)
}

func TestOpen_RestoresPersistedSelection(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{Backend: kvstore.BackendFile, Path: filepath.Join(t.TempDir(), "store.toml")}

	first, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	first.Start(ctx)
	chooseHondaCity(t, first)
	require.NoError(t, first.Close())

	second, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	got := second.Selection()
	assert.Equal(t, "Honda", got.Brand)
	assert.Equal(t, "City", got.Model)
	assert.Equal(t, "Petrol", got.Fuel)
	assert.Equal(t, "Gurugram", got.City)
	assert.True(t, got.IsComplete)
}

func TestSession_ReconcilePicksUpAnotherProcess(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{Backend: kvstore.BackendFile, Path: filepath.Join(t.TempDir(), "store.toml")}

	tui, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tui.Close() })
	assert.True(t, tui.Selection().Empty())

	cli, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	chooseHondaCity(t, cli)
	require.NoError(t, cli.Synchronizer().Persist(ctx, cli.Selection()))
	require.NoError(t, cli.Close())

	require.NoError(t, tui.Reconcile(ctx))
	got := tui.Selection()
	assert.Equal(t, "Honda-City-Petrol-Gurugram", selection.Fingerprint(got))
	assert.True(t, got.IsComplete)
}

func TestSession_ListingFollowsSelection(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.Start(ctx)

	require.Eventually(t, func() bool {
		snap := s.Listing()
		return snap.HasListing && snap.Listing.Fingerprint == selection.NoCarFingerprint
	}, 2*time.Second, 10*time.Millisecond, "initial base-price listing")
	assert.False(t, s.Listing().Listing.Pricing.HasRealPricing)

	chooseHondaCity(t, s)
	want := selection.Fingerprint(s.Selection())

	require.Eventually(t, func() bool {
		snap := s.Listing()
		return snap.HasListing && snap.Listing.Fingerprint == want
	}, 2*time.Second, 10*time.Millisecond, "listing refetched for Honda City")

	snap := s.Listing()
	assert.True(t, snap.Listing.Pricing.HasRealPricing)
	assert.Equal(t, DefaultCategory, snap.Listing.Slug)
	assert.NotEmpty(t, snap.Listing.Services)
}

func TestSession_OutdatedResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	honda := selection.Selection{Brand: "Honda", Model: "City", Fuel: "Petrol", IsComplete: true}
	s.Container().Dispatch(selection.SetCompleteData{Data: selection.Partial{
		Brand: strp("Toyota"), Model: strp("Fortuner"), Fuel: strp("Diesel"),
	}})

	snap, err := s.FetchListing(ctx, honda)
	require.NoError(t, err)
	assert.False(t, snap.HasListing, "response for the previous car must not be shown")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.FetchListing(cancelled, s.Selection())
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.Listing().HasListing)
	assert.Zero(t, s.Listing().ConsecutiveFailures)

	snap, err = s.FetchListing(ctx, s.Selection())
	require.NoError(t, err)
	require.True(t, snap.HasListing)
	assert.Equal(t, "Toyota-Fortuner-Diesel-", snap.Listing.Fingerprint)
}

func TestSession_SetCategoryRefetches(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.Start(ctx)

	require.NoError(t, s.LoadCategories(ctx))
	require.NotEmpty(t, s.Categories())

	s.SetCategory("ac-service")
	assert.Equal(t, "ac-service", s.Category())
	require.Eventually(t, func() bool {
		snap := s.Listing()
		return snap.HasListing && snap.Listing.Slug == "ac-service"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSession_FetchListingUnknownCategory(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	s.SetCategory("no-such-category")
	snap, err := s.FetchListing(ctx, s.Selection())
	require.Error(t, err)
	assert.Equal(t, 1, snap.ConsecutiveFailures)
	assert.False(t, snap.HasListing)
}

func TestSession_ClearCarRemovesPersistedKeys(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	s.Start(ctx)

	chooseHondaCity(t, s)
	s.Synchronizer().Wait()

	require.NoError(t, s.ClearCar(ctx))
	assert.True(t, s.Selection().Empty())
	for _, k := range persist.AllKeys {
		_, ok, err := s.kv.Get(ctx, k)
		require.NoError(t, err)
		assert.False(t, ok, "key %s still stored", k)
	}
}

func TestSession_LoginGatesWizard(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	err = s.RequireLogin(ctx)
	assert.True(t, errors.Is(err, session.ErrNoSession))

	require.NoError(t, s.Client().RequestOTP(ctx, "9876543210"))
	tokens, err := s.Login(ctx, "9876543210", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Access)

	require.NoError(t, s.RequireLogin(ctx))
	stored, err := s.Auth().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", stored.PhoneNumber)

	userID, err := s.Client().WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored.UserID, userID)
}

func TestSession_LoginNotRequired(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Required = false
	s, err := Open(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.NoError(t, s.RequireLogin(context.Background()))
}

func TestStoreOptions(t *testing.T) {
	got := StoreOptions(config.StoreConfig{
		Backend: "redis", RedisAddr: "localhost:6379", RedisDB: 2, RedisPrefix: "cb:",
	})
	assert.Equal(t, kvstore.Options{
		Backend: "redis", RedisAddr: "localhost:6379", RedisDB: 2, RedisPrefix: "cb:",
	}, got)
}

func strp(s string) *string { return &s }
