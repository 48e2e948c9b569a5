package internal

import "time"

type RunRequest struct {
	ID         string    `json:"id"`
	SourceText string    `json:"source_text"`
	Platforms  []string  `json:"platforms"`
	Audience   string    `json:"audience"`
	ABTesting  bool      `json:"ab_testing"`
	Timestamp  time.Time `json:"timestamp"`
}

// RunRecord is a finished run as stored in history.
type RunRecord struct {
	RunRequest
	Topic    string        `json:"topic"`
	Thesis   string        `json:"thesis"`
	Duration time.Duration `json:"duration"`
}

// DraftRecord is one draft of one platform in a stored run. Metadata holds
// the validator output as JSON.
type DraftRecord struct {
	RunID     string `json:"run_id"`
	Platform  string `json:"platform"`
	Variant   int    `json:"variant"`
	Raw       string `json:"raw"`
	Humanized string `json:"humanized"`
	Selected  bool   `json:"selected"`
	Metadata  string `json:"metadata"`
	Error     string `json:"error,omitempty"`
}
