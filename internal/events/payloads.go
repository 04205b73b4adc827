// Package events defines submission event payloads and their publishers.
package events

import "time"

// SubmissionRecorded is emitted after a habit submission has been
// projected and durably persisted.
type SubmissionRecorded struct {
	SubmissionID string    `json:"submission_id"`
	User         string    `json:"user"`
	Date         string    `json:"date"`
	Horizons     []int     `json:"horizons"`
	Score        float64   `json:"score"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// ScoreUpdated tracks leaderboard movement for downstream consumers.
type ScoreUpdated struct {
	User       string    `json:"user"`
	Score      float64   `json:"score"`
	OccurredAt time.Time `json:"occurred_at"`
}
