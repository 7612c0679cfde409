package submissions

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/telemetry"
)

// Link is an ephemeral, directly fetchable reference to a visible record's
// attachment. Tokens are process-local and must never be persisted.
type Link struct {
	ID    int64
	Token string
	URL   string
}

// LinkManager owns the open download links for the currently visible record
// set. Open links are kept in 1:1 correspondence with visible records that
// carry an attachment: Refresh is the only routine that opens or releases
// links on view changes, and ReleaseAll is the teardown path.
type LinkManager struct {
	mu       sync.Mutex
	basePath string
	byID     map[int64]Link
	byToken  map[string]int64

	// mint is swappable in tests to exercise per-record creation failures.
	mint func() (string, error)
}

// NewLinkManager constructs a LinkManager issuing URLs under basePath.
func NewLinkManager(basePath string) *LinkManager {
	if basePath == "" {
		basePath = "/api/v1/files"
	}
	return &LinkManager{
		basePath: basePath,
		byID:     make(map[int64]Link),
		byToken:  make(map[string]int64),
		mint:     func() (string, error) { return uuid.NewString(), nil },
	}
}

// Refresh reconciles the open links against the new visible set in one pass:
// links for records that stay visible are reused, links for newly visible
// records with attachments are opened, and everything else is released when
// the new set is installed. A failed mint skips that record only; the rest of
// the view keeps its links.
func (m *LinkManager) Refresh(visible []Submission) []Link {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[int64]Link, len(visible))
	out := make([]Link, 0, len(visible))
	opened := 0

	for _, rec := range visible {
		if !rec.HasAttachment() {
			continue
		}
		if _, dup := next[rec.ID]; dup {
			continue
		}
		if link, ok := m.byID[rec.ID]; ok {
			next[rec.ID] = link
			out = append(out, link)
			continue
		}
		token, err := m.mint()
		if err != nil {
			telemetry.Warn("link.create_failed", map[string]any{
				"record_id": rec.ID,
				"error":     fmt.Errorf("%w: %v", ErrLinkCreation, err).Error(),
			})
			continue
		}
		link := Link{ID: rec.ID, Token: token, URL: m.basePath + "/" + token}
		next[rec.ID] = link
		out = append(out, link)
		opened++
	}

	released := 0
	byToken := make(map[string]int64, len(next))
	for id, link := range next {
		byToken[link.Token] = id
	}
	for id := range m.byID {
		if _, keep := next[id]; !keep {
			released++
		}
	}
	m.byID = next
	m.byToken = byToken

	metrics.AddLinksOpened(opened)
	metrics.AddLinksReleased(released)
	return out
}

// Resolve returns the record id behind an open token.
func (m *LinkManager) Resolve(token string) (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byToken[token]
	return id, ok
}

// ReleaseAll drops every open link unconditionally. Called when the consuming
// view goes away.
func (m *LinkManager) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	metrics.AddLinksReleased(len(m.byID))
	m.byID = make(map[int64]Link)
	m.byToken = make(map[string]int64)
}

// Len reports the number of currently open links.
func (m *LinkManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
