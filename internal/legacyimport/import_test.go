package legacyimport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"resume-tracker/internal/submissions"
)

func TestParseRecordsSkipsMalformed(t *testing.T) {
	raw := map[string]json.RawMessage{
		"resume:1": json.RawMessage(`{"username":"alice","filename":"cv.pdf","jobTitle":"Backend Engineer","score":82}`),
		"resume:2": json.RawMessage(`{not json`),
		"resume:3": json.RawMessage(`{"filename":"orphan.pdf"}`),
		"resume:4": json.RawMessage(`{"username":"bob","score":60}`),
	}

	records, skipped := ParseRecords(raw)
	if skipped != 2 {
		t.Fatalf("skipped = %d, want 2", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2", len(records))
	}
	// Key order is deterministic: alice before bob.
	if records[0].Username != "alice" || records[1].Username != "bob" {
		t.Fatalf("unexpected order: %s, %s", records[0].Username, records[1].Username)
	}
	if records[0].JobTitle != "Backend Engineer" || records[0].Score != 82 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
}

func TestParseRecordsEmptyDump(t *testing.T) {
	records, skipped := ParseRecords(nil)
	if len(records) != 0 || skipped != 0 {
		t.Fatalf("got %d records, %d skipped, want none", len(records), skipped)
	}
}

func TestImporterRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/export" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("pattern"); got != DefaultPattern {
			t.Errorf("pattern = %q, want %q", got, DefaultPattern)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resume:1": {"username":"alice","filename":"cv.pdf","jobTitle":"Backend Engineer","score":82},
			"resume:2": "definitely-not-an-object",
			"resume:3": {"username":"bob","jobTitle":"Nurse","score":71}
		}`))
	}))
	t.Cleanup(srv.Close)

	repo := submissions.NewMemoryRepo()
	im := &Importer{Client: NewClient(srv.URL), Repo: repo}

	imported, skipped, err := im.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if imported != 2 || skipped != 1 {
		t.Fatalf("imported = %d, skipped = %d, want 2 and 1", imported, skipped)
	}

	stored, err := repo.ListByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("ListByUsername: %v", err)
	}
	if len(stored) != 1 || stored[0].ID == 0 {
		t.Fatalf("expected alice's record with a fresh id, got %+v", stored)
	}
}

func TestFetchRequiresBaseURL(t *testing.T) {
	c := NewClient("")
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestFetchReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "export disabled", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	if _, err := c.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for non-200 export response")
	}
}
