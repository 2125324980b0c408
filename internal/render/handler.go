package render

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/shared/metrics"
	"tailor-backend/internal/shared/server/respond"
)

// Handler wires the render endpoint to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches render routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/render", h.render)
}

type renderRequest struct {
	Latex string `json:"latex"`
}

func (h *Handler) render(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	start := time.Now()
	pdf, err := h.Svc.Render(c.Request.Context(), req.Latex)
	metrics.ObserveRenderDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncRenderFailed()
		var compileErr *CompileError
		switch {
		case errors.Is(err, ErrEmptyInput):
			respond.Error(c, http.StatusBadRequest, "empty_input", "latex body is required", nil)
		case errors.As(err, &compileErr):
			respond.Error(c, http.StatusUnprocessableEntity, "compilation_failed", "document failed to compile", gin.H{"diagnostics": compileErr.Diagnostics})
		case errors.Is(err, ErrServiceUnavailable):
			respond.Error(c, http.StatusBadGateway, "compilation_unavailable", "compilation service unavailable", nil)
		case errors.Is(err, ErrArtifactFetch):
			respond.Error(c, http.StatusBadGateway, "artifact_fetch_failed", "compiled document could not be fetched", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render document", nil)
		}
		return
	}

	metrics.IncRenderCompleted()
	c.Header("Content-Disposition", `attachment; filename="resume.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
