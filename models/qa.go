package models

import "time"

// QAEntry is one question/answer exchange. The history is append-only and
// lives for the lifetime of the store; DocumentID records which document
// the question was asked against so a UI can filter.
type QAEntry struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
}
