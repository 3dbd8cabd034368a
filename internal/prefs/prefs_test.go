package prefs

import (
	"context"
	"testing"

	"github.com/onlybigcars/carbook/internal/kvstore"
)

func TestLoad_MissingKeyUsesDefaults(t *testing.T) {
	store := kvstore.NewMemory()

	got := Load(context.Background(), store)
	if got.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", got.Theme, defaultTheme)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()

	if err := Save(ctx, store, Prefs{Theme: "Slate", Category: "ac-service"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := Load(ctx, store)
	if got.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", got.Theme, "Slate")
	}
	if got.Category != "ac-service" {
		t.Fatalf("Category = %q, want %q", got.Category, "ac-service")
	}
}

func TestLoad_InvalidTOMLFallsBack(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	if err := store.Set(ctx, Key, "theme = ["); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got := Load(ctx, store)
	if got.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", got.Theme, defaultTheme)
	}
}

func TestLoad_BlankThemeUsesDefault(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	if err := store.Set(ctx, Key, `theme = "  "`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := Load(ctx, store); got.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", got.Theme, defaultTheme)
	}
}

func TestNilStore(t *testing.T) {
	if got := Load(context.Background(), nil); got.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", got.Theme, defaultTheme)
	}
	if err := Save(context.Background(), nil, Prefs{Theme: "Slate"}); err != nil {
		t.Fatalf("Save(nil) = %v, want nil", err)
	}
}
