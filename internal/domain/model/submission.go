package model

import "time"

// Submission is a captured pilot request. Records are immutable once created;
// Source tells whether the authoritative service assigned the ID or the
// client synthesized it while offline.
type Submission struct {
	ID        string
	Email     string
	Company   string
	Comment   string
	Country   string
	CreatedAt time.Time
	Source    Source
}

// SubmissionInput is a candidate submission as entered by a visitor, before
// normalization and validation.
type SubmissionInput struct {
	Email   string
	Company string
	Comment string
	Country string
}
