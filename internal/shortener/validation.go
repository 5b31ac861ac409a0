package shortener

import (
	"net/url"

	"github.com/httpsdevi/linksnap/internal/link"
)

const maxURLLength = 2048

// ValidateURL checks that rawURL is an absolute http or https URL with a
// host. Returns link.ErrInvalidURL on any failure; the caller reports it
// before anything touches storage.
func ValidateURL(rawURL string) error {
	if rawURL == "" || len(rawURL) > maxURLLength {
		return link.ErrInvalidURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return link.ErrInvalidURL
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return link.ErrInvalidURL
	}

	if parsed.Host == "" {
		return link.ErrInvalidURL
	}

	return nil
}
