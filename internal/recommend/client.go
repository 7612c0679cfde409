package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-tracker/internal/shared/telemetry"
)

const (
	maxTextChars = 15000
	defaultN     = 5
)

// Recommendation is one suggested job title with the service's score and
// reasoning.
type Recommendation struct {
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Result carries either recommendations or a degraded-mode explanation. The
// client never returns an error for remote failures: both addresses failing
// is a degraded view, not a fault in the caller.
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Degraded        bool             `json:"degraded,omitempty"`
	Message         string           `json:"message,omitempty"`
}

// Client calls the job recommendation service: one attempt against the
// primary address, and on any failure one retry against the backup with an
// identical body. No further retries.
type Client struct {
	Primary    string
	Backup     string
	HTTPClient *http.Client
}

// NewClient constructs a Client with a bounded request timeout.
func NewClient(primary, backup string) *Client {
	return &Client{
		Primary: primary,
		Backup:  backup,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type recommendRequest struct {
	Text string `json:"text"`
	N    int    `json:"n"`
}

type recommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommend asks for n job recommendations for the given resume text.
func (c *Client) Recommend(ctx context.Context, text string, n int) Result {
	if n <= 0 {
		n = defaultN
	}
	if len(text) > maxTextChars {
		text = text[:maxTextChars]
	}

	body, err := json.Marshal(recommendRequest{Text: text, N: n})
	if err != nil {
		return degraded(fmt.Sprintf("could not encode request: %v", err))
	}

	recs, primaryErr := c.post(ctx, c.Primary, body)
	if primaryErr == nil {
		return Result{Recommendations: recs}
	}
	telemetry.Warn("recommend.primary_failed", map[string]any{
		"addr":  c.Primary,
		"error": primaryErr.Error(),
	})

	recs, backupErr := c.post(ctx, c.Backup, body)
	if backupErr == nil {
		return Result{Recommendations: recs}
	}
	telemetry.Warn("recommend.backup_failed", map[string]any{
		"addr":  c.Backup,
		"error": backupErr.Error(),
	})

	return degraded("Job recommendations are temporarily unavailable. Your submission history is unaffected.")
}

func (c *Client) post(ctx context.Context, addr string, body []byte) ([]Recommendation, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("address not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(addr, "/")+"/recommend", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded recommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return decoded.Recommendations, nil
}

func degraded(message string) Result {
	return Result{
		Recommendations: []Recommendation{},
		Degraded:        true,
		Message:         message,
	}
}
