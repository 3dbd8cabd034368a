package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/onlybigcars/carbook/internal/kvstore"
)

// Store keys shared with the mobile app.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUserID       = "userId"
	KeyPhoneNumber  = "userPhoneNumber"
)

// Keys lists every key a session owns.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUserID, KeyPhoneNumber}

// ErrNoSession is returned by Require when no usable access token is stored.
var ErrNoSession = errors.New("session: not logged in")

// Tokens is what a successful login leaves behind.
type Tokens struct {
	Access      string
	Refresh     string
	UserID      string
	PhoneNumber string
}

// Manager reads and writes login state in a kvstore.Store.
type Manager struct {
	store kvstore.Store
	now   func() time.Time
}

// NewManager returns a Manager over store.
func NewManager(store kvstore.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// AccessToken returns the stored access token, or "" when there is none or it
// has expired.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	token, ok, err := m.store.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", KeyAccessToken, err)
	}
	token = strings.TrimSpace(token)
	if !ok || token == "" || m.expired(token) {
		return "", nil
	}
	return token, nil
}

// HasSession reports whether a usable access token is stored.
func (m *Manager) HasSession(ctx context.Context) (bool, error) {
	token, err := m.AccessToken(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Require returns ErrNoSession unless HasSession is true.
func (m *Manager) Require(ctx context.Context) error {
	ok, err := m.HasSession(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoSession
	}
	return nil
}

// Load returns the stored tokens. Missing keys are empty.
func (m *Manager) Load(ctx context.Context) (Tokens, error) {
	var t Tokens
	fields := []struct {
		key string
		dst *string
	}{
		{KeyAccessToken, &t.Access},
		{KeyRefreshToken, &t.Refresh},
		{KeyUserID, &t.UserID},
		{KeyPhoneNumber, &t.PhoneNumber},
	}
	for _, f := range fields {
		v, _, err := m.store.Get(ctx, f.key)
		if err != nil {
			return Tokens{}, fmt.Errorf("session: read %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return t, nil
}

// Save stores t. Empty fields are skipped, the access token is required.
func (m *Manager) Save(ctx context.Context, t Tokens) error {
	if strings.TrimSpace(t.Access) == "" {
		return fmt.Errorf("session: access token required")
	}
	var errs []error
	for _, kv := range []struct{ key, value string }{
		{KeyAccessToken, t.Access},
		{KeyRefreshToken, t.Refresh},
		{KeyUserID, t.UserID},
		{KeyPhoneNumber, t.PhoneNumber},
	} {
		if kv.value == "" {
			continue
		}
		if err := m.store.Set(ctx, kv.key, kv.value); err != nil {
			errs = append(errs, fmt.Errorf("session: write %s: %w", kv.key, err))
		}
	}
	return errors.Join(errs...)
}

// Logout removes every session key. The car selection is kept.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.MultiRemove(ctx, Keys...); err != nil {
		return fmt.Errorf("session: logout: %w", err)
	}
	return nil
}

// expired reports whether token is a JWT whose exp claim is in the past.
// Tokens that are not JWTs or carry no exp never expire here; the server is
// the authority and will reject them.
func (m *Manager) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !m.now().Before(exp.Time)
}
