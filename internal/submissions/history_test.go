package submissions

import "testing"

func historyFixture() []Submission {
	return []Submission{
		{ID: 1, Username: "alice", JobTitle: "Backend Engineer"},
		{ID: 2, Username: "alice", JobTitle: "Nurse"},
		{ID: 3, Username: "bob", JobTitle: "Data Engineer"},
		{ID: 4, Username: "bob", JobTitle: "Teacher"},
	}
}

func titles(records []Submission) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.JobTitle
	}
	return out
}

func TestFilterByTitleEmptyTermKeepsAll(t *testing.T) {
	records := historyFixture()
	filtered := FilterByTitle(records, "")
	if len(filtered) != len(records) {
		t.Fatalf("expected all %d records, got %d", len(records), len(filtered))
	}
}

func TestFilterByTitleCaseInsensitive(t *testing.T) {
	records := historyFixture()

	upper := FilterByTitle(records, "Eng")
	lower := FilterByTitle(records, "eng")
	if len(upper) != len(lower) {
		t.Fatalf("case sensitivity detected: %d vs %d", len(upper), len(lower))
	}
	for i := range upper {
		if upper[i].ID != lower[i].ID {
			t.Fatalf("case variants diverge at %d", i)
		}
	}
	if len(upper) != 2 {
		t.Fatalf("expected 2 matches for 'eng', got %d", len(upper))
	}
}

func TestFilterByTitleMonotonicity(t *testing.T) {
	records := historyFixture()

	all := FilterByTitle(records, "")
	loose := FilterByTitle(records, "eng")
	tight := FilterByTitle(records, "engineer")

	if len(all) < len(loose) || len(loose) < len(tight) {
		t.Fatalf("looser terms must match supersets: %d >= %d >= %d expected",
			len(all), len(loose), len(tight))
	}
	// Every tight match appears among the loose matches.
	looseIDs := make(map[int64]bool, len(loose))
	for _, rec := range loose {
		looseIDs[rec.ID] = true
	}
	for _, rec := range tight {
		if !looseIDs[rec.ID] {
			t.Fatalf("record %d matched tight but not loose term", rec.ID)
		}
	}
}

func TestFilterByTitlePreservesOrder(t *testing.T) {
	records := historyFixture()
	filtered := FilterByTitle(records, "e")

	var lastID int64
	for _, rec := range filtered {
		if rec.ID <= lastID {
			t.Fatalf("relative order not preserved: %v", titles(filtered))
		}
		lastID = rec.ID
	}
}

func TestFilterByTitleDoesNotMutateInput(t *testing.T) {
	records := historyFixture()
	_ = FilterByTitle(records, "nurse")

	if records[0].JobTitle != "Backend Engineer" || len(records) != 4 {
		t.Fatalf("input mutated: %v", titles(records))
	}
}

func TestFilterByTitleNoMatches(t *testing.T) {
	filtered := FilterByTitle(historyFixture(), "astronaut")
	if len(filtered) != 0 {
		t.Fatalf("expected no matches, got %v", titles(filtered))
	}
}
