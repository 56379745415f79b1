package responses

import "time"

// APIResponse is the envelope every endpoint answers with.
type APIResponse[T any] struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	Data       *T        `json:"data,omitempty"`
	Error      string    `json:"error,omitempty"`
	Details    any       `json:"details,omitempty"`
	RedirectTo string    `json:"redirect_to,omitempty"`
}
