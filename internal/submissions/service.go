package submissions

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/telemetry"
)

// Service composes the repo, the history filter, and the link manager. It is
// the only mutation path: every insert, delete, and clear completes against
// the repo before the derived view and its links are recomputed.
type Service struct {
	Repo  Repo
	Links *LinkManager

	mu   sync.Mutex
	view viewState
}

type viewState struct {
	username string
	term     string
	active   bool
}

// NewService constructs a Service.
func NewService(repo Repo, links *LinkManager) *Service {
	if links == nil {
		links = NewLinkManager("")
	}
	return &Service{Repo: repo, Links: links}
}

// Insert validates and persists a new submission, then recomputes the links
// for the current view.
func (s *Service) Insert(ctx context.Context, sub Submission) (Submission, error) {
	if strings.TrimSpace(sub.Username) == "" {
		return Submission{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	stored, err := s.Repo.Insert(ctx, sub)
	if err != nil {
		return Submission{}, err
	}
	metrics.IncSubmissionInserted()

	s.refreshLinks(ctx)
	return stored, nil
}

// List returns the filtered history for username (all users when empty) and
// the open links for its visible attachments. The queried view becomes the
// current one: subsequent mutations recompute links against it.
func (s *Service) List(ctx context.Context, username, term string) ([]Submission, []Link, error) {
	records, err := s.Repo.ListByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("list submissions: %w", err)
	}

	s.mu.Lock()
	s.view = viewState{username: username, term: term, active: true}
	s.mu.Unlock()

	visible := FilterByTitle(records, term)
	links := s.Links.Refresh(visible)
	return visible, links, nil
}

// Get returns a single record by id.
func (s *Service) Get(ctx context.Context, id int64) (Submission, error) {
	return s.Repo.GetByID(ctx, id)
}

// Remove deletes a record, then recomputes links. Deleting an absent id is a
// no-op.
func (s *Service) Remove(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	metrics.IncSubmissionDeleted()
	s.refreshLinks(ctx)
	return nil
}

// Clear wipes the whole store, then recomputes links.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.Repo.Clear(ctx); err != nil {
		return err
	}
	s.refreshLinks(ctx)
	return nil
}

// Close releases every open link and forgets the current view. Called when
// the consuming view is torn down; late-arriving reads cannot resurrect
// links after this.
func (s *Service) Close() {
	s.mu.Lock()
	s.view = viewState{}
	s.mu.Unlock()
	s.Links.ReleaseAll()
}

// refreshLinks re-derives the visible set for the current view and
// reconciles the open links against it. The mutation that triggered the
// refresh has already completed; the refresh itself must run to completion
// even if the original caller has gone away, hence the detached context.
func (s *Service) refreshLinks(ctx context.Context) {
	s.mu.Lock()
	view := s.view
	s.mu.Unlock()
	if !view.active {
		return
	}

	records, err := s.Repo.ListByUsername(context.WithoutCancel(ctx), view.username)
	if err != nil {
		// Keep the previous link set rather than dropping links for
		// records that are still visible.
		telemetry.Warn("links.refresh_skipped", map[string]any{"error": err.Error()})
		return
	}
	s.Links.Refresh(FilterByTitle(records, view.term))
}
