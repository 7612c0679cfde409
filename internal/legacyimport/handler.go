package legacyimport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/shared/server/respond"
)

// Handler exposes the one-shot import as a dev-only endpoint.
type Handler struct {
	Importer *Importer
}

// NewHandler constructs a Handler.
func NewHandler(importer *Importer) *Handler {
	return &Handler{Importer: importer}
}

// RegisterDevRoutes attaches import routes to the dev router group.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/import", h.run)
}

type importResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

func (h *Handler) run(c *gin.Context) {
	imported, skipped, err := h.Importer.Run(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "import_failed", "legacy import failed", err.Error())
		return
	}
	respond.JSON(c, http.StatusOK, importResponse{Imported: imported, Skipped: skipped})
}
