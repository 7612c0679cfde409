package submissions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo. It mirrors the durable
// engines' shape: a primary map keyed by id plus a non-unique username index.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]Submission
	byUser map[string][]int64 // username -> record ids, insertion order
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data:   make(map[int64]Submission),
		byUser: make(map[string][]int64),
	}
}

// Insert assigns the next id and the insertion timestamp, then stores a copy
// of the record. The repo owns the stored bytes.
func (r *MemoryRepo) Insert(ctx context.Context, sub Submission) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	sub.ID = r.nextID
	sub.CreatedAt = time.Now().UTC()
	if sub.File != nil {
		sub.File = append([]byte(nil), sub.File...)
	}

	r.data[sub.ID] = sub
	r.byUser[sub.Username] = append(r.byUser[sub.Username], sub.ID)
	return sub, nil
}

// GetByID returns the record for id.
func (r *MemoryRepo) GetByID(ctx context.Context, id int64) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.data[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

// ListByUsername returns records in insertion order. An empty username lists
// the whole store.
func (r *MemoryRepo) ListByUsername(ctx context.Context, username string) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if username != "" {
		ids := r.byUser[username]
		out := make([]Submission, 0, len(ids))
		for _, id := range ids {
			if sub, ok := r.data[id]; ok {
				out = append(out, sub)
			}
		}
		return out, nil
	}

	out := make([]Submission, 0, len(r.data))
	for _, sub := range r.data {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// DeleteByID removes the record and its index entry if present.
func (r *MemoryRepo) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.data[id]
	if !ok {
		return nil
	}
	delete(r.data, id)

	ids := r.byUser[sub.Username]
	for i, recorded := range ids {
		if recorded == id {
			r.byUser[sub.Username] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.byUser[sub.Username]) == 0 {
		delete(r.byUser, sub.Username)
	}
	return nil
}

// Clear removes every record. The id counter keeps climbing so ids stay
// unique within the repo instance.
func (r *MemoryRepo) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = make(map[int64]Submission)
	r.byUser = make(map[string][]int64)
	return nil
}
