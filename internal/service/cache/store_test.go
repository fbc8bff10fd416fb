package cache

import (
	"context"
	"testing"
	"time"
)

func TestEscapeLike(t *testing.T) {
	cases := map[string]string{
		"v1/cbt2/":     "v1/cbt2/",
		"v1/100%_off/": `v1/100\%\_off/`,
		`a\b`:          `a\\b`,
	}
	for in, want := range cases {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEscapeGlob(t *testing.T) {
	cases := map[string]string{
		"v1/cbt2/":  "v1/cbt2/",
		"v1/[x]*?/": `v1/\[x\]\*\?/`,
	}
	for in, want := range cases {
		if got := escapeGlob(in); got != want {
			t.Errorf("escapeGlob(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNopStoreHoldsNothing(t *testing.T) {
	var s Store = NopStore{}
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}
