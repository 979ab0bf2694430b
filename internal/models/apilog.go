package models

// APILog records one upstream chat completion call made on a user's behalf.
type APILog struct {
	// ID is the unique identifier for the log entry (UUID format).
	ID string `json:"id"`

	// UserID is the user whose chat message triggered the call.
	UserID string `json:"user_id"`

	// Timestamp is the Unix timestamp in milliseconds when the call started.
	Timestamp int64 `json:"timestamp"`

	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`

	// Request and Response hold the JSON bodies exchanged with the upstream.
	Request  string `json:"request"`
	Response string `json:"response"`

	// Status is the HTTP status code, or 0 when no response arrived.
	Status int `json:"status"`

	DurationMs int64 `json:"duration_ms"`
}
