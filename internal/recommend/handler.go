package recommend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/extract"
	"resume-tracker/internal/feedback"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/shared/telemetry"
	"resume-tracker/internal/submissions"
)

// RecordSource is the slice of the submission store the handler needs.
type RecordSource interface {
	Get(ctx context.Context, id int64) (submissions.Submission, error)
}

// Handler wires the recommendation endpoint to the client and the store.
type Handler struct {
	Client *Client
	Store  RecordSource
}

// NewHandler constructs a Handler.
func NewHandler(client *Client, store RecordSource) *Handler {
	return &Handler{Client: client, Store: store}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submissions/:id/recommendations", h.recommend)
}

type recommendBody struct {
	Sections []feedback.Section `json:"sections"`
	N        int                `json:"n"`
}

func (h *Handler) recommend(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "submission id must be an integer", nil)
		return
	}

	var body recommendBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, http.ErrBodyReadAfterClose) {
		// An empty body is fine; recommendations then come from the
		// stored record alone.
		body = recommendBody{}
	}

	sub, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, submissions.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "submission store is unavailable", nil)
		return
	}

	text := composeRequestText(sub, body.Sections)
	result := h.Client.Recommend(c.Request.Context(), text, body.N)
	respond.OK(c, result)
}

// composeRequestText builds the recommendation prompt from the record's
// metadata, the feedback sections, and the attachment text when it can be
// extracted. Extraction failures degrade to metadata-only text.
func composeRequestText(sub submissions.Submission, sections []feedback.Section) string {
	parts := make([]string, 0, 3)
	if title := strings.TrimSpace(sub.JobTitle); title != "" {
		parts = append(parts, "Target role: "+title)
	}
	if composed := feedback.ComposeText(sections); composed != "" {
		parts = append(parts, composed)
	}
	if sub.HasAttachment() {
		text, err := extract.TextFromBytes(sub.File, "", sub.Filename)
		if err != nil {
			telemetry.Warn("recommend.extract_failed", map[string]any{
				"record_id": sub.ID,
				"error":     err.Error(),
			})
		} else if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n")
}
