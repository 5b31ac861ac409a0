package analytics

import "time"

// Topics for the link event streams.
const (
	TopicLinkCreated = "link.created"
	TopicLinkClicked = "link.clicked"
)

// LinkCreatedEvent is emitted when a URL is shortened.
type LinkCreatedEvent struct {
	ID          string    `json:"id"`
	Alias       string    `json:"alias"`
	OriginalURL string    `json:"originalUrl"`
	CustomAlias bool      `json:"customAlias"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientIP    string    `json:"clientIp,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
}

// ClickEvent is emitted on each successful redirect. The durable click
// counter on the link record is authoritative; these events carry the
// enrichment data (client, referrer) that the counter cannot.
type ClickEvent struct {
	ID        string    `json:"id"`
	Alias     string    `json:"alias"`
	ClickedAt time.Time `json:"clickedAt"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
}
