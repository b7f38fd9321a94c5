package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

// timeLayout is fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Compile-time interface satisfaction check.
var _ driven.SubmissionStore = (*SubmissionRepo)(nil)

// SubmissionRepo is the SQLite implementation of driven.SubmissionStore.
type SubmissionRepo struct {
	db  *DB
	now func() time.Time
}

// NewSubmissionRepo creates a SubmissionRepo backed by db.
func NewSubmissionRepo(db *DB) *SubmissionRepo {
	return &SubmissionRepo{db: db, now: time.Now}
}

// Create inserts a submission and returns it with its assigned id and
// creation time.
func (r *SubmissionRepo) Create(ctx context.Context, in model.SubmissionInput) (model.Submission, error) {
	const query = `INSERT INTO applications (email, company, comment, country, created_at) VALUES (?, ?, ?, ?, ?)`

	createdAt := r.now().UTC()

	result, err := r.db.Writer.ExecContext(ctx, query,
		in.Email, in.Company, nullString(in.Comment), nullString(in.Country),
		createdAt.Format(timeLayout),
	)
	if err != nil {
		return model.Submission{}, fmt.Errorf("insert application: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Submission{}, fmt.Errorf("get inserted id: %w", err)
	}

	return model.Submission{
		ID:        strconv.FormatInt(id, 10),
		Email:     in.Email,
		Company:   in.Company,
		Comment:   in.Comment,
		Country:   in.Country,
		CreatedAt: createdAt,
		Source:    model.SourceRemote,
	}, nil
}

// ListAll returns every submission, newest first.
func (r *SubmissionRepo) ListAll(ctx context.Context) ([]model.Submission, error) {
	const query = `SELECT id, email, company, comment, country, created_at
		FROM applications ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return subs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (model.Submission, error) {
	var (
		id               int64
		sub              model.Submission
		comment, country sql.NullString
		createdAt        string
	)

	if err := s.Scan(&id, &sub.Email, &sub.Company, &comment, &country, &createdAt); err != nil {
		return model.Submission{}, fmt.Errorf("scan application: %w", err)
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return model.Submission{}, fmt.Errorf("parse created_at: %w", err)
	}

	sub.ID = strconv.FormatInt(id, 10)
	sub.Comment = comment.String
	sub.Country = country.String
	sub.CreatedAt = t
	sub.Source = model.SourceRemote
	return sub, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// parseTime accepts both what this package writes and what SQLite's own
// datetime functions produce.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.000Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
