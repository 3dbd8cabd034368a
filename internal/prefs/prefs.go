// Package prefs persists carbook user preferences in the key-value store.
package prefs

import (
	"context"
	"fmt"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/onlybigcars/carbook/internal/kvstore"
)

// Key holds the TOML-encoded preferences.
const Key = "carbookPrefs"

const defaultTheme = "Nightfox"

// Prefs holds user preferences for carbook.
type Prefs struct {
	Theme    string `toml:"theme"`
	Category string `toml:"category,omitempty"`
}

// Load reads preferences from store, falling back to defaults when missing.
func Load(ctx context.Context, store kvstore.Store) Prefs {
	prefs := Prefs{Theme: defaultTheme}
	if store == nil {
		return prefs
	}
	raw, ok, err := store.Get(ctx, Key)
	if err != nil || !ok {
		return prefs // Graceful degradation
	}
	if err := toml.Unmarshal([]byte(raw), &prefs); err != nil {
		return Prefs{Theme: defaultTheme}
	}
	if strings.TrimSpace(prefs.Theme) == "" {
		prefs.Theme = defaultTheme
	}
	return prefs
}

// Save writes preferences to store.
func Save(ctx context.Context, store kvstore.Store, p Prefs) error {
	if store == nil {
		return nil
	}
	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := store.Set(ctx, Key, string(bytes)); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}
