package alias

import (
	"fmt"
	"regexp"

	"github.com/jaevor/go-nanoid"

	"github.com/httpsdevi/linksnap/internal/link"
)

const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Custom aliases: alphanumeric plus hyphen and underscore, 3-32 chars.
var customAliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}$`)

// Generator synthesizes random base62 aliases. Uniqueness is not checked
// here; the store enforces it atomically at insertion and callers retry
// on link.ErrAliasTaken.
type Generator struct {
	generate func() string
}

// NewGenerator creates a generator producing aliases of the given length.
func NewGenerator(length int) (*Generator, error) {
	gen, err := nanoid.CustomASCII(base62, length)
	if err != nil {
		return nil, fmt.Errorf("create alias generator: %w", err)
	}

	return &Generator{generate: gen}, nil
}

// Generate returns a new random alias.
func (g *Generator) Generate() link.Alias {
	return link.Alias(g.generate())
}

// Validate checks a user-supplied custom alias against the allowed charset
// and length bounds. Returns link.ErrAliasInvalid on failure.
func Validate(a link.Alias) error {
	if !customAliasPattern.MatchString(string(a)) {
		return link.ErrAliasInvalid
	}

	return nil
}
