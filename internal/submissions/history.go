package submissions

import "strings"

// FilterByTitle returns the subsequence of records whose JobTitle contains
// term as a case-insensitive substring, preserving relative order. An empty
// term keeps every record. Pure function: callers re-derive the view from the
// full record set on every change instead of mutating it.
func FilterByTitle(records []Submission, term string) []Submission {
	if strings.TrimSpace(term) == "" {
		out := make([]Submission, len(records))
		copy(out, records)
		return out
	}

	needle := strings.ToLower(term)
	out := make([]Submission, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.JobTitle), needle) {
			out = append(out, rec)
		}
	}
	return out
}
