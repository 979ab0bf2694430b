package api

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompleteRequest carries the conversation so far; the server adds the system prompt.
type CompleteRequest struct {
	Messages []*ChatMessage `json:"messages"`
}

type CompleteResponse struct {
	Content string `json:"content"`
}

type APILog struct {
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	Endpoint   string `json:"endpoint"`
	Method     string `json:"method"`
	Request    string `json:"request"`
	Response   string `json:"response"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"durationMs"`
}

type ListAPILogsRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListAPILogsResponse struct {
	Logs []*APILog `json:"logs"`
}

type ClearAPILogsRequest struct{}

type ClearAPILogsResponse struct {
	Removed int `json:"removed"`
}
