package ui

import (
	"testing"
	"time"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"negative", -5 * time.Second, "just now"},
		{"seconds", 12 * time.Second, "just now"},
		{"minutes", 61 * time.Second, "1m ago"},
		{"hours", 2*time.Hour + 10*time.Minute, "2h ago"},
		{"days", 49 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeDuration(tc.in); got != tc.want {
				t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("truncate zero = %q, want empty", got)
	}
	if got := truncate("Comprehensive Service", 10); got != "Compreh..." {
		t.Fatalf("truncate = %q, want %q", got, "Compreh...")
	}
	if got := truncate("abcd", 2); got != "ab" {
		t.Fatalf("truncate limit<=3 = %q, want ab", got)
	}
	if got := truncate("₹2499", 5); got != "₹2499" {
		t.Fatalf("truncate multibyte = %q, want unchanged", got)
	}
}
