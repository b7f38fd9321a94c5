// Package viewmodel defines presentation-ready structs for the page
// components. View models decouple rendering from domain model types.
package viewmodel

// Notice is a one-line status message shown above a form.
type Notice struct {
	Text  string
	Error bool
}

// LandingPage holds the pilot request form, refilled after a failed post.
type LandingPage struct {
	CSRFToken string
	Email     string
	Company   string
	Comment   string
	Notice    *Notice
}

// AdminPage holds the admin table and its lock state.
type AdminPage struct {
	CSRFToken   string
	Locked      bool
	OverlayText string // Shown over the table while locked.
	Status      *Notice
	Rows        []SubmissionRow
}

// SubmissionRow is one row of the admin table.
type SubmissionRow struct {
	ID          string
	Email       string
	Company     string
	CommentHTML string // Sanitized HTML rendered from the markdown comment.
	Country     string
	CreatedAt   string
	Source      string
}
