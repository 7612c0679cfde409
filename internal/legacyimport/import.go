package legacyimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/telemetry"
	"resume-tracker/internal/submissions"
)

// ErrMalformedRecord marks one legacy record that failed to parse. It is
// reported per record and never aborts the batch.
var ErrMalformedRecord = errors.New("malformed record")

// DefaultPattern matches every legacy submission key in the remote dump.
const DefaultPattern = "resume:*"

// Client fetches the legacy key/value dump of JSON-encoded records.
type Client struct {
	BaseURL    string
	Pattern    string
	HTTPClient *http.Client
}

// NewClient constructs a Client for the given export endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Pattern: DefaultPattern,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch returns the raw key → value map for every key matching the pattern.
func (c *Client) Fetch(ctx context.Context) (map[string]json.RawMessage, error) {
	if strings.TrimSpace(c.BaseURL) == "" {
		return nil, fmt.Errorf("LEGACY_EXPORT_URL is empty")
	}
	pattern := c.Pattern
	if pattern == "" {
		pattern = DefaultPattern
	}

	endpoint := strings.TrimRight(c.BaseURL, "/") + "/export?pattern=" + url.QueryEscape(pattern)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch legacy export: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch legacy export: http status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode legacy export: %w", err)
	}
	return out, nil
}

type legacyRecord struct {
	Username string  `json:"username"`
	Filename string  `json:"filename"`
	File     []byte  `json:"file"`
	JobTitle string  `json:"jobTitle"`
	Score    float64 `json:"score"`
}

// ParseRecords decodes each value independently, in key order. A malformed
// value is skipped and counted; the rest of the batch is unaffected. A record
// without a username has no owner key and counts as malformed too.
func ParseRecords(raw map[string]json.RawMessage) ([]submissions.Submission, int) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]submissions.Submission, 0, len(raw))
	skipped := 0
	for _, key := range keys {
		sub, err := parseRecord(raw[key])
		if err != nil {
			skipped++
			metrics.IncImportSkipped()
			telemetry.Warn("import.record_skipped", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
			continue
		}
		out = append(out, sub)
	}
	return out, skipped
}

func parseRecord(raw json.RawMessage) (submissions.Submission, error) {
	var rec legacyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return submissions.Submission{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if strings.TrimSpace(rec.Username) == "" {
		return submissions.Submission{}, fmt.Errorf("%w: missing username", ErrMalformedRecord)
	}
	return submissions.Submission{
		Username: rec.Username,
		Filename: rec.Filename,
		File:     rec.File,
		JobTitle: rec.JobTitle,
		Score:    rec.Score,
	}, nil
}

// Importer pulls the legacy dump and inserts the surviving records through
// the submission repo, which assigns fresh ids and timestamps.
type Importer struct {
	Client *Client
	Repo   submissions.Repo
}

// Run performs one import pass and reports imported and skipped counts.
func (im *Importer) Run(ctx context.Context) (imported, skipped int, err error) {
	raw, err := im.Client.Fetch(ctx)
	if err != nil {
		return 0, 0, err
	}

	records, skipped := ParseRecords(raw)
	for _, rec := range records {
		if _, err := im.Repo.Insert(ctx, rec); err != nil {
			return imported, skipped, fmt.Errorf("insert imported record: %w", err)
		}
		imported++
	}

	telemetry.Info("import.complete", map[string]any{
		"imported": imported,
		"skipped":  skipped,
	})
	return imported, skipped, nil
}
