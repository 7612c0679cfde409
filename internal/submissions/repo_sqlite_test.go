package submissions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLiteRepoInsertAssignsID(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := &SQLiteRepo{DB: conn}

	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(
			"alice",
			sqlmock.AnyArg(), // filename
			[]byte("bytes"),
			"Backend Engineer",
			82.0,
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(7, 1))

	stored, err := repo.Insert(context.Background(), Submission{
		Username: "alice",
		Filename: "cv.pdf",
		File:     []byte("bytes"),
		JobTitle: "Backend Engineer",
		Score:    82,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if stored.ID != 7 {
		t.Fatalf("expected id 7, got %d", stored.ID)
	}
	if stored.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt assigned")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSQLiteRepoInsertWrapsEngineError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := &SQLiteRepo{DB: conn}

	mock.ExpectExec("INSERT INTO submissions").
		WillReturnError(errors.New("disk I/O error"))

	_, err = repo.Insert(context.Background(), Submission{Username: "alice"})
	if !errors.Is(err, ErrWriteFailed) {
		t.Fatalf("expected ErrWriteFailed, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestSQLiteRepoGetByIDNotFound(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := &SQLiteRepo{DB: conn}

	mock.ExpectQuery("SELECT id, username, filename, file, job_title, score, created_at").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "filename", "file", "job_title", "score", "created_at"}))

	_, err = repo.GetByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRepoListByUsername(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := &SQLiteRepo{DB: conn}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "username", "filename", "file", "job_title", "score", "created_at"}).
		AddRow(int64(1), "alice", "cv.pdf", []byte("a"), "Backend Engineer", 82.0, now).
		AddRow(int64(3), "alice", nil, nil, "Data Scientist", 75.5, now)

	mock.ExpectQuery("SELECT id, username, filename, file, job_title, score, created_at").
		WithArgs("alice").
		WillReturnRows(rows)

	listed, err := repo.ListByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListByUsername: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 records, got %d", len(listed))
	}
	if listed[0].Filename != "cv.pdf" {
		t.Fatalf("expected filename cv.pdf, got %q", listed[0].Filename)
	}
	if listed[1].Filename != "" || listed[1].File != nil {
		t.Fatalf("expected NULL filename/file to map to zero values, got %+v", listed[1])
	}
}

func TestSQLiteRepoDeleteAndClear(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	repo := &SQLiteRepo{DB: conn}

	// Deleting an absent id still succeeds: zero rows affected is not an
	// error.
	mock.ExpectExec("DELETE FROM submissions WHERE id").
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM submissions").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteByID(context.Background(), 42); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := repo.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
