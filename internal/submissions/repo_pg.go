package submissions

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert persists a new submission and returns it with id and createdAt set.
func (r *PGRepo) Insert(ctx context.Context, sub Submission) (Submission, error) {
	const query = `
INSERT INTO submissions (username, filename, file, job_title, score, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	sub.CreatedAt = time.Now().UTC()

	err := r.DB.QueryRowContext(
		ctx,
		query,
		sub.Username,
		nullString(sub.Filename),
		sub.File,
		sub.JobTitle,
		sub.Score,
		sub.CreatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: insert submission: %v", ErrWriteFailed, err)
	}
	return sub, nil
}

// GetByID returns the submission for id.
func (r *PGRepo) GetByID(ctx context.Context, id int64) (Submission, error) {
	const query = `
SELECT id, username, filename, file, job_title, score, created_at
FROM submissions
WHERE id = $1`
	return scanSubmission(r.DB.QueryRowContext(ctx, query, id))
}

// ListByUsername returns records in insertion order (ascending id).
func (r *PGRepo) ListByUsername(ctx context.Context, username string) ([]Submission, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if username != "" {
		rows, err = r.DB.QueryContext(ctx, `
SELECT id, username, filename, file, job_title, score, created_at
FROM submissions
WHERE username = $1
ORDER BY id`, username)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
SELECT id, username, filename, file, job_title, score, created_at
FROM submissions
ORDER BY id`)
	}
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()
	return collectSubmissions(rows)
}

// DeleteByID removes the record if present; absent ids are a no-op.
func (r *PGRepo) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete submission: %v", ErrWriteFailed, err)
	}
	return nil
}

// Clear wipes the whole record set in one statement.
func (r *PGRepo) Clear(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM submissions`); err != nil {
		return fmt.Errorf("%w: clear submissions: %v", ErrWriteFailed, err)
	}
	return nil
}
