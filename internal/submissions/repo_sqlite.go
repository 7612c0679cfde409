package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLiteRepo implements Repo over a local SQLite database.
type SQLiteRepo struct {
	DB *sql.DB
}

// Insert persists a new submission and returns it with id and createdAt set.
func (r *SQLiteRepo) Insert(ctx context.Context, sub Submission) (Submission, error) {
	const query = `
INSERT INTO submissions (username, filename, file, job_title, score, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

	sub.CreatedAt = time.Now().UTC()

	res, err := r.DB.ExecContext(
		ctx,
		query,
		sub.Username,
		nullString(sub.Filename),
		sub.File,
		sub.JobTitle,
		sub.Score,
		sub.CreatedAt,
	)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: insert submission: %v", ErrWriteFailed, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Submission{}, fmt.Errorf("%w: last insert id: %v", ErrWriteFailed, err)
	}
	sub.ID = id
	return sub, nil
}

// GetByID returns the submission for id.
func (r *SQLiteRepo) GetByID(ctx context.Context, id int64) (Submission, error) {
	const query = `
SELECT id, username, filename, file, job_title, score, created_at
FROM submissions
WHERE id = ?`
	return scanSubmission(r.DB.QueryRowContext(ctx, query, id))
}

// ListByUsername returns records in insertion order (ascending id). The
// username index drives the lookup but never the ordering.
func (r *SQLiteRepo) ListByUsername(ctx context.Context, username string) ([]Submission, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if username != "" {
		rows, err = r.DB.QueryContext(ctx, `
SELECT id, username, filename, file, job_title, score, created_at
FROM submissions
WHERE username = ?
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
func (r *SQLiteRepo) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM submissions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%w: delete submission: %v", ErrWriteFailed, err)
	}
	return nil
}

// Clear wipes the whole record set in one statement.
func (r *SQLiteRepo) Clear(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM submissions`); err != nil {
		return fmt.Errorf("%w: clear submissions: %v", ErrWriteFailed, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (Submission, error) {
	var (
		sub      Submission
		filename sql.NullString
	)
	err := row.Scan(
		&sub.ID,
		&sub.Username,
		&filename,
		&sub.File,
		&sub.JobTitle,
		&sub.Score,
		&sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Submission{}, ErrNotFound
		}
		return Submission{}, err
	}
	if filename.Valid {
		sub.Filename = filename.String
	}
	return sub, nil
}

func collectSubmissions(rows *sql.Rows) ([]Submission, error) {
	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
