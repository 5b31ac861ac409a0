package link

import "errors"

var (
	// ErrNotFound indicates the alias does not exist.
	ErrNotFound = errors.New("link not found")

	// ErrAliasTaken indicates the alias is already mapped to another URL.
	ErrAliasTaken = errors.New("alias already taken")

	// ErrAliasInvalid indicates a custom alias failed validation.
	ErrAliasInvalid = errors.New("alias is invalid")

	// ErrInvalidURL indicates the submitted URL is not an absolute
	// http or https URL.
	ErrInvalidURL = errors.New("url is invalid")

	// ErrGenerationExhausted indicates no free alias was found within the
	// configured number of attempts.
	ErrGenerationExhausted = errors.New("alias generation exhausted")

	// ErrStoreUnavailable indicates the persistence backend timed out or
	// is unreachable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
