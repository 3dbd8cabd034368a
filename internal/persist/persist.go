package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/onlybigcars/carbook/internal/kvstore"
	"github.com/onlybigcars/carbook/internal/selection"
)

// Store keys shared with earlier app versions.
const (
	KeyCarContext = "carContext"
	KeyBrand      = "selectedBrand"
	KeyModel      = "selectedModel"
	KeyFuel       = "selectedFuel"
	KeyCity       = "userSelectedCity"
)

// AllKeys lists every key the synchronizer owns.
var AllKeys = []string{KeyCarContext, KeyBrand, KeyModel, KeyFuel, KeyCity}

var errNotObject = errors.New("persist: record is not a JSON object")

const defaultWriteTimeout = 5 * time.Second

// Synchronizer mirrors a selection.Container into a kvstore.Store.
type Synchronizer struct {
	store        kvstore.Store
	container    *selection.Container
	logger       *zap.Logger
	writeTimeout time.Duration

	inflight sync.WaitGroup
}

// Option customizes a Synchronizer.
type Option func(*Synchronizer)

// WithWriteTimeout bounds each background persist started by AutoPersist.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// New binds store and container. A nil logger discards output.
func New(store kvstore.Store, container *selection.Container, logger *zap.Logger, opts ...Option) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Synchronizer{
		store:        store,
		container:    container,
		logger:       logger.Named("persist"),
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Persist writes each present legacy field and then the consolidated record.
// The writes are independent: one failing does not stop the others, and
// nothing is rolled back. All failures are returned joined.
func (s *Synchronizer) Persist(ctx context.Context, sel selection.Selection) error {
	var errs []error

	legacy := []struct{ key, value string }{
		{KeyBrand, sel.Brand},
		{KeyModel, sel.Model},
		{KeyFuel, sel.Fuel},
		{KeyCity, sel.City},
	}
	for _, kv := range legacy {
		if kv.value == "" {
			continue
		}
		if err := s.store.Set(ctx, kv.key, kv.value); err != nil {
			errs = append(errs, fmt.Errorf("persist: write %s: %w", kv.key, err))
		}
	}

	record, err := json.Marshal(sel)
	if err != nil {
		errs = append(errs, fmt.Errorf("persist: encode %s: %w", KeyCarContext, err))
	} else if err := s.store.Set(ctx, KeyCarContext, string(record)); err != nil {
		errs = append(errs, fmt.Errorf("persist: write %s: %w", KeyCarContext, err))
	}

	if err := errors.Join(errs...); err != nil {
		s.logger.Warn("Failed to save car selection", zap.Error(err))
		return err
	}
	s.logger.Debug("Car selection saved",
		zap.String("fingerprint", selection.Fingerprint(sel)),
		zap.String("city", sel.City))
	return nil
}

// Reconcile loads the persisted selection into the container, replacing the
// in-memory state. It prefers the consolidated record and falls back to the
// legacy keys. loaded is false when nothing was found, in which case the
// container is left untouched. Read errors leave the container untouched too.
func (s *Synchronizer) Reconcile(ctx context.Context) (sel selection.Selection, loaded bool, err error) {
	sel, loaded, err = s.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load car selection", zap.Error(err))
		return selection.Selection{}, false, err
	}
	if !loaded {
		return selection.Selection{}, false, nil
	}
	if s.container != nil {
		s.container.Dispatch(selection.LoadFromStore{Selection: sel})
	}
	return sel, true, nil
}

// Load reads the persisted selection without touching the container.
func (s *Synchronizer) Load(ctx context.Context) (selection.Selection, bool, error) {
	raw, ok, err := s.store.Get(ctx, KeyCarContext)
	if err != nil {
		return selection.Selection{}, false, fmt.Errorf("persist: read %s: %w", KeyCarContext, err)
	}
	if ok && raw != "" {
		sel, err := decodeRecord(raw)
		if err == nil {
			return sel, true, nil
		}
		s.logger.Warn("Ignoring malformed car selection record", zap.Error(err))
	}
	return s.loadLegacy(ctx)
}

// decodeRecord parses a consolidated record. Anything but a JSON object,
// null included, is malformed.
func decodeRecord(raw string) (selection.Selection, error) {
	var sel selection.Selection
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return sel, errNotObject
	}
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return selection.Selection{}, err
	}
	return sel, nil
}

func (s *Synchronizer) loadLegacy(ctx context.Context) (selection.Selection, bool, error) {
	keys := []string{KeyBrand, KeyModel, KeyFuel, KeyCity}
	values := make([]string, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			v, _, err := s.store.Get(gctx, key)
			if err != nil {
				return fmt.Errorf("persist: read %s: %w", key, err)
			}
			values[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return selection.Selection{}, false, err
	}

	brand, model, fuel, city := values[0], values[1], values[2], values[3]
	if brand == "" && model == "" && fuel == "" && city == "" {
		return selection.Selection{}, false, nil
	}
	return selection.Selection{
		Brand:      brand,
		Model:      model,
		Fuel:       fuel,
		City:       city,
		IsComplete: brand != "" && model != "" && fuel != "",
	}, true, nil
}

// ClearPersisted removes the consolidated record and every legacy key in one
// batch, so a later Reconcile cannot rebuild a stale selection from leftovers.
func (s *Synchronizer) ClearPersisted(ctx context.Context) error {
	if err := s.store.MultiRemove(ctx, AllKeys...); err != nil {
		err = fmt.Errorf("persist: clear: %w", err)
		s.logger.Warn("Failed to clear car selection", zap.Error(err))
		return err
	}
	s.logger.Debug("Car selection cleared")
	return nil
}

// Clear removes persisted data and then clears the container. The container
// is only cleared when the removal succeeded.
func (s *Synchronizer) Clear(ctx context.Context) error {
	if err := s.ClearPersisted(ctx); err != nil {
		return err
	}
	if s.container != nil {
		s.container.Dispatch(selection.Clear{})
	}
	return nil
}

// AutoPersist saves the selection in the background after every change that
// leaves it complete. Incomplete wizard progress is never written. The
// returned func stops watching; writes already started still finish.
func (s *Synchronizer) AutoPersist() (stop func()) {
	if s.container == nil {
		return func() {}
	}
	return s.container.Subscribe(func(prev, next selection.Selection) {
		if !next.IsComplete || prev == next {
			return
		}
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
			defer cancel()
			_ = s.Persist(ctx, next)
		}()
	})
}

// Wait blocks until background writes started by AutoPersist finish.
func (s *Synchronizer) Wait() {
	s.inflight.Wait()
}
