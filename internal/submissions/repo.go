package submissions

import "context"

// Repo defines persistence operations for submissions.
//
// ListByUsername returns records in insertion order (ascending ID), both for
// a single user and for the whole store. The underlying engines are free to
// iterate their indexes in any order, so every implementation sorts
// explicitly rather than relying on index order.
type Repo interface {
	// Insert assigns ID and CreatedAt and persists the record atomically.
	Insert(ctx context.Context, sub Submission) (Submission, error)
	// GetByID returns ErrNotFound for an absent id; that is a valid empty
	// result, not a storage failure.
	GetByID(ctx context.Context, id int64) (Submission, error)
	// ListByUsername returns the given user's records, or every record when
	// username is empty. An unknown username yields an empty slice.
	ListByUsername(ctx context.Context, username string) ([]Submission, error)
	// DeleteByID removes the record if present. Deleting an absent id is a
	// no-op.
	DeleteByID(ctx context.Context, id int64) error
	// Clear removes every record in one atomic operation.
	Clear(ctx context.Context) error
}
