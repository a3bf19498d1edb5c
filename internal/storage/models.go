package storage

import "time"

// ParseRecord is one stored parse outcome, kept so results can be
// re-downloaded after the original response was rendered.
type ParseRecord struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Source     string    `json:"source"` // model | fallback
	Payload    string    `json:"-"`      // ParsedResume-shaped JSON
	TextLength int       `json:"text_length"`
	CreatedAt  time.Time `json:"created_at"`
}
