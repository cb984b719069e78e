package id

import (
	"strings"

	"github.com/google/uuid"
)

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

type UUID struct{}

func (UUID) New() string {
	return uuid.NewString()
}

var stableNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("brack:session"))

// Stable derives a name-based (v5) UUID from parts, so the same parts always
// yield the same id.
func Stable(parts ...string) string {
	return uuid.NewSHA1(stableNamespace, []byte(strings.Join(parts, "\x00"))).String()
}
