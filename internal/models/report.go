package models

import "time"

// Report is the archive record of a completed analysis run.
type Report struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Company     string    `json:"company"`
	Format      string    `json:"format"` // "json", "html" or "pdf"
	BlobName    string    `json:"blob_name"`
	Score       float64   `json:"combined_score"`
	Grade       string    `json:"combined_grade"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Alert is an urgent notification, raised when a watched target's combined
// score drops sharply between scheduled runs.
type Alert struct {
	Type          string    `json:"type"`
	Target        string    `json:"target"`
	Company       string    `json:"company"`
	Message       string    `json:"message"`
	PreviousScore float64   `json:"previous_score"`
	CurrentScore  float64   `json:"current_score"`
	CreatedAt     time.Time `json:"created_at"`
}
