package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/onlybigcars/carbook/internal/catalog"
	"github.com/onlybigcars/carbook/internal/config"
	"github.com/onlybigcars/carbook/internal/kvstore"
	"github.com/onlybigcars/carbook/internal/persist"
	"github.com/onlybigcars/carbook/internal/refetch"
	"github.com/onlybigcars/carbook/internal/selection"
	"github.com/onlybigcars/carbook/internal/session"
	"github.com/onlybigcars/carbook/internal/state"
	"github.com/onlybigcars/carbook/internal/wizard"
)

// DefaultCategory is listed until the user picks another one.
const DefaultCategory = "car-service"

// Session wires one selection container to its store, API client and
// listing for the lifetime of a command.
type Session struct {
	cfg    config.Config
	logger *zap.Logger

	kv        kvstore.Store
	container *selection.Container
	sync      *persist.Synchronizer
	auth      *session.Manager
	client    *catalog.Client
	wizard    *wizard.Wizard
	listing   *state.Store

	trigger  *refetch.Trigger
	stopAuto func()
	cancel   context.CancelFunc

	mu         sync.RWMutex
	category   string
	categories []catalog.Category
}

// Open builds a Session over the configured store and reconciles the
// persisted selection into it. A failed reconcile is logged and the session
// starts empty.
func Open(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	kv, err := kvstore.Open(ctx, StoreOptions(cfg.Store))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s, err := newSession(cfg, logger, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	if err := s.Reconcile(ctx); err != nil {
		logger.Warn("Starting with an empty car selection", zap.Error(err))
	}
	return s, nil
}

func newSession(cfg config.Config, logger *zap.Logger, kv kvstore.Store) (*Session, error) {
	container := selection.NewContainer(selection.Selection{})
	auth := session.NewManager(kv)
	client, err := catalog.NewClient(cfg.API.BaseURL,
		catalog.WithTimeout(cfg.API.Timeout),
		catalog.WithTokenSource(auth))
	if err != nil {
		return nil, fmt.Errorf("init api client: %w", err)
	}
	return &Session{
		cfg:       cfg,
		logger:    logger,
		kv:        kv,
		container: container,
		sync:      persist.New(kv, container, logger),
		auth:      auth,
		client:    client,
		wizard:    wizard.New(container),
		listing:   &state.Store{},
		category:  DefaultCategory,
	}, nil
}

// StoreOptions maps store config onto kvstore options.
func StoreOptions(c config.StoreConfig) kvstore.Options {
	return kvstore.Options{
		Backend:       c.Backend,
		Path:          c.Path,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	}
}

// Start enables auto-persist, the debounced listing refetch and the periodic
// refresh, and schedules the first fetch.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.stopAuto = s.sync.AutoPersist()
	s.trigger = refetch.NewTrigger(s.container, s.fetch,
		refetch.WithDelay(s.cfg.Refetch.Debounce),
		refetch.WithLogger(s.logger))
	s.trigger.Refresh()
	if s.cfg.Refetch.Interval > 0 {
		StartPoller(ctx, s.listing, s.trigger.Refresh, s.cfg.Refetch.Interval)
	}
}

// Close stops background work, waits for pending writes and closes the store.
func (s *Session) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.stopAuto != nil {
		s.stopAuto()
	}
	if s.trigger != nil {
		s.trigger.Close()
	}
	s.sync.Wait()
	return s.kv.Close()
}

// RequireLogin returns an error wrapping session.ErrNoSession when login is
// required and missing. Anything that drives the wizard checks it first.
func (s *Session) RequireLogin(ctx context.Context) error {
	if !s.cfg.Auth.Required {
		return nil
	}
	err := s.auth.Require(ctx)
	if errors.Is(err, session.ErrNoSession) {
		return fmt.Errorf("%w: run `carbook login <phone>` first", err)
	}
	return err
}

// Reconcile replaces the in-memory selection with the persisted one, for when
// the UI regains focus and another process may have changed the store.
func (s *Session) Reconcile(ctx context.Context) error {
	_, _, err := s.sync.Reconcile(ctx)
	return err
}

// Login exchanges an OTP for tokens and stores them.
func (s *Session) Login(ctx context.Context, phone, code string) (catalog.Tokens, error) {
	tokens, err := s.client.VerifyOTP(ctx, phone, code)
	if err != nil {
		return catalog.Tokens{}, err
	}
	err = s.auth.Save(ctx, session.Tokens{
		Access:      tokens.Access,
		Refresh:     tokens.Refresh,
		UserID:      strconv.FormatInt(tokens.UserID, 10),
		PhoneNumber: phone,
	})
	if err != nil {
		return catalog.Tokens{}, err
	}
	s.logger.Info("Logged in", zap.Int64("user_id", tokens.UserID), zap.Bool("new_user", tokens.IsNewUser))
	return tokens, nil
}

// Selection returns the current car selection.
func (s *Session) Selection() selection.Selection { return s.container.State() }

// Container exposes the session's selection container.
func (s *Session) Container() *selection.Container { return s.container }

// Synchronizer exposes the persistence layer.
func (s *Session) Synchronizer() *persist.Synchronizer { return s.sync }

// Auth exposes the login state.
func (s *Session) Auth() *session.Manager { return s.auth }

// Client exposes the API client.
func (s *Session) Client() *catalog.Client { return s.client }

// Wizard exposes the selection wizard.
func (s *Session) Wizard() *wizard.Wizard { return s.wizard }

// Listing returns the latest listing snapshot.
func (s *Session) Listing() state.Snapshot { return s.listing.Snapshot() }

// ClearCar removes the persisted selection and then the in-memory one.
func (s *Session) ClearCar(ctx context.Context) error { return s.sync.Clear(ctx) }

// Category returns the slug being listed.
func (s *Session) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// SetCategory switches the listed category and schedules a fetch.
func (s *Session) SetCategory(slug string) {
	s.mu.Lock()
	changed := s.category != slug
	s.category = slug
	s.mu.Unlock()
	if changed {
		s.Refresh()
	}
}

// Categories returns the categories loaded by LoadCategories.
func (s *Session) Categories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.Category(nil), s.categories...)
}

// LoadCategories fetches the category list. On failure the default category
// stays the only option.
func (s *Session) LoadCategories(ctx context.Context) error {
	cats, err := s.client.FetchCategories(ctx)
	if err != nil {
		s.logger.Warn("Failed to load categories", zap.Error(err))
		return err
	}
	s.mu.Lock()
	s.categories = cats
	s.mu.Unlock()
	return nil
}

// Refresh schedules a debounced listing fetch.
func (s *Session) Refresh() {
	if s.trigger != nil {
		s.trigger.Refresh()
	}
}

// FetchListing fetches the current category for sel and records the result.
func (s *Session) FetchListing(ctx context.Context, sel selection.Selection) (state.Snapshot, error) {
	err := s.fetch(ctx, sel)
	return s.listing.Snapshot(), err
}

func (s *Session) fetch(ctx context.Context, sel selection.Selection) error {
	slug := s.Category()
	fp := selection.Fingerprint(sel)
	s.listing.BeginFetch()
	resp, err := s.client.FetchServices(ctx, slug, selection.QueryParams(sel))
	if s.superseded(ctx, slug, fp) {
		s.logger.Debug("Discarded outdated listing",
			zap.String("category", slug),
			zap.String("fingerprint", fp))
		return ctx.Err()
	}
	if err != nil {
		s.listing.Update(nil, err)
		return fmt.Errorf("fetch %s: %w", slug, err)
	}
	s.listing.Update(&state.Listing{
		Slug:        slug,
		Fingerprint: fp,
		Category:    resp.Category,
		Services:    catalog.SortServices(resp.Services),
		Pricing:     resp.PricingContext,
	}, nil)
	s.logger.Debug("Listing updated",
		zap.String("category", slug),
		zap.String("fingerprint", fp),
		zap.Int("services", len(resp.Services)))
	return nil
}

// superseded reports whether a response for slug and fp arrived after the
// request was cancelled or the selection or category moved on.
func (s *Session) superseded(ctx context.Context, slug, fp string) bool {
	return ctx.Err() != nil ||
		slug != s.Category() ||
		fp != selection.Fingerprint(s.container.State())
}
