package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mb3rlab/pilotdesk/internal/domain/model"
	"github.com/mb3rlab/pilotdesk/internal/domain/port/driven"
)

var _ driven.SubmissionStore = (*SubmissionRepo)(nil)

// SubmissionRepo is the PostgreSQL implementation of driven.SubmissionStore.
type SubmissionRepo struct {
	db *sql.DB
}

func NewSubmissionRepo(db *sql.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

func (r *SubmissionRepo) Create(ctx context.Context, in model.SubmissionInput) (model.Submission, error) {
	const query = `INSERT INTO applications (email, company, comment, country)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	var id int64
	sub := model.Submission{
		Email:   in.Email,
		Company: in.Company,
		Comment: in.Comment,
		Country: in.Country,
		Source:  model.SourceRemote,
	}

	err := r.db.QueryRowContext(ctx, query, in.Email, in.Company, nullString(in.Comment), nullString(in.Country)).
		Scan(&id, &sub.CreatedAt)
	if err != nil {
		return model.Submission{}, fmt.Errorf("insert application: %w", err)
	}

	sub.ID = strconv.FormatInt(id, 10)
	sub.CreatedAt = sub.CreatedAt.UTC()
	return sub, nil
}

func (r *SubmissionRepo) ListAll(ctx context.Context) ([]model.Submission, error) {
	const query = `SELECT id, email, company, comment, country, created_at
		FROM applications
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var (
			id               int64
			sub              model.Submission
			comment, country sql.NullString
		)
		if err := rows.Scan(&id, &sub.Email, &sub.Company, &comment, &country, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		sub.ID = strconv.FormatInt(id, 10)
		sub.Comment = comment.String
		sub.Country = country.String
		sub.CreatedAt = sub.CreatedAt.UTC()
		sub.Source = model.SourceRemote
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}

	return subs, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
