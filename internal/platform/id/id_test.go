package id_test

import (
	"testing"

	"github.com/google/uuid"

	"brack/internal/platform/id"
)

func TestStableIsDeterministic(t *testing.T) {
	t.Parallel()
	a := id.Stable("u1", "notes/morning.md", "2026-02-21T07:00:00Z")
	if b := id.Stable("u1", "notes/morning.md", "2026-02-21T07:00:00Z"); a != b {
		t.Fatalf("Stable changed between calls: %s vs %s", a, b)
	}
	if other := id.Stable("u2", "notes/morning.md", "2026-02-21T07:00:00Z"); other == a {
		t.Fatalf("different users share id %s", a)
	}
	parsed, err := uuid.Parse(a)
	if err != nil {
		t.Fatalf("parse %s: %v", a, err)
	}
	if parsed.Version() != 5 {
		t.Fatalf("expected a v5 uuid, got v%d", parsed.Version())
	}
}
