package slug_test

import (
	"strings"
	"testing"

	"brack/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Local":            "local",
		"  Ada Lovelace  ": "ada-lovelace",
		"user@example.com": "user-example-com",
		"***":              "reader",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeCapsLength(t *testing.T) {
	t.Parallel()
	got := slug.Make(strings.Repeat("ab ", 30))
	if len(got) > 64 || strings.HasSuffix(got, "-") {
		t.Fatalf("Make produced %q (%d bytes)", got, len(got))
	}
}
