package handlers

import "time"

// ShortenRequest is the request body for creating a short link.
type ShortenRequest struct {
	Body struct {
		URL   string `doc:"The URL to shorten"                example:"https://example.com/very/long/path" json:"url"`
		Alias string `doc:"Optional custom alias (3-32 chars, alphanumeric, hyphen, underscore)" example:"my-link" json:"alias,omitempty" required:"false"`
	}
}

// ShortenResponse is the response for a successfully created short link.
type ShortenResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body struct {
		Alias        string    `doc:"The alias for the link"  example:"ab12cd"                            json:"alias"`
		ShortenedURL string    `doc:"The full shortened URL"  example:"http://localhost:8888/ab12cd"      json:"shortenedUrl"`
		CreatedAt    time.Time `doc:"Creation timestamp"      json:"createdAt"`
	}
}

// RedirectRequest is the request for resolving an alias.
type RedirectRequest struct {
	Alias string `doc:"The alias to resolve" example:"ab12cd" path:"alias"`
}

// RedirectResponse carries the redirect to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// StatsRequest is the request for reading link stats.
type StatsRequest struct {
	Alias string `doc:"The alias to inspect" example:"ab12cd" path:"alias"`
}

// StatsResponse reports click metadata for a link.
type StatsResponse struct {
	Body struct {
		Alias         string     `doc:"The alias for the link"          json:"alias"`
		ClickCount    int64      `doc:"Total successful redirects"      json:"clickCount"`
		CreatedAt     time.Time  `doc:"Creation timestamp"              json:"createdAt"`
		LastClickedAt *time.Time `doc:"Timestamp of the latest click"   json:"lastClickedAt"`
	}
}
