package submissions

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/shared/metrics"
	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
	"resume-tracker/internal/shared/util"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the submission service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches submission routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/submissions", h.create)
	rg.GET("/submissions", h.list)
	rg.DELETE("/submissions/:id", h.remove)
	rg.DELETE("/submissions", h.clear)
	rg.GET("/files/:token", h.download)
	rg.DELETE("/history", h.closeView)
}

func (h *Handler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	username := c.PostForm("username")
	if username == "" {
		username = middleware.UsernameFromContext(c)
	}
	jobTitle := c.PostForm("jobTitle")

	score := 0.0
	if raw := c.PostForm("score"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "score must be a number", nil)
			return
		}
		score = parsed
	}

	sub := Submission{
		Username: username,
		JobTitle: jobTitle,
		Score:    score,
	}

	if fileHeader, err := c.FormFile("file"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
			return
		}
		sub.File = data
		sub.Filename = fileHeader.Filename
	}

	stored, err := h.Svc.Insert(c.Request.Context(), sub)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrWriteFailed):
			respond.Error(c, http.StatusInternalServerError, "write_failed", "failed to save submission", nil)
		default:
			respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "submission store is unavailable", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, toResponse(stored, nil))
}

func (h *Handler) list(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		username = middleware.UsernameFromContext(c)
	}
	term := c.Query("q")

	visible, links, err := h.Svc.List(c.Request.Context(), username, term)
	if err != nil {
		// An unreachable store is not an empty history.
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "history is temporarily unavailable", nil)
		return
	}

	byID := make(map[int64]Link, len(links))
	for _, link := range links {
		byID[link.ID] = link
	}

	resp := make([]SubmissionResponse, 0, len(visible))
	for _, sub := range visible {
		resp = append(resp, toResponse(sub, byID))
	}
	respond.OK(c, resp)
}

func (h *Handler) remove(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "submission id must be an integer", nil)
		return
	}

	if err := h.Svc.Remove(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrWriteFailed) {
			respond.Error(c, http.StatusInternalServerError, "write_failed", "failed to delete submission", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "submission store is unavailable", nil)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Svc.Clear(c.Request.Context()); err != nil {
		if errors.Is(err, ErrWriteFailed) {
			respond.Error(c, http.StatusInternalServerError, "write_failed", "failed to clear submissions", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "submission store is unavailable", nil)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) download(c *gin.Context) {
	token := c.Param("token")
	id, ok := h.Svc.Links.Resolve(token)
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "download link expired or unknown", nil)
		return
	}

	sub, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "submission not found", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "storage_unavailable", "submission store is unavailable", nil)
		return
	}
	if !sub.HasAttachment() {
		respond.Error(c, http.StatusNotFound, "not_found", "submission has no attachment", nil)
		return
	}

	filename, err := util.SanitizeFileName(sub.Filename)
	if err != nil {
		filename = "resume"
	}
	metrics.ObserveDownloadBytes(float64(len(sub.File)))

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, http.DetectContentType(sub.File), sub.File)
}

func (h *Handler) closeView(c *gin.Context) {
	h.Svc.Close()
	respond.NoContent(c)
}
