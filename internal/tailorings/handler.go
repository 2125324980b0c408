package tailorings

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tailor-backend/internal/extract"
	"tailor-backend/internal/shared/metrics"
	"tailor-backend/internal/shared/server/middleware"
	"tailor-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches tailoring routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/tailorings", h.create)
	rg.GET("/tailorings", h.list)
	rg.GET("/tailorings/:id", h.get)
	rg.PUT("/tailorings/:id/result", h.setResult)
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	jobDescription := strings.TrimSpace(c.PostForm("jobDescription"))
	if jobDescription == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobDescription is required", nil)
		return
	}

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resume file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read resume file", nil)
		return
	}

	mediaType := fileHeader.Header.Get("Content-Type")

	rec, err := h.Svc.Ingest(c.Request.Context(), userID, jobDescription, fileHeader.Filename, mediaType, data)
	if err != nil {
		metrics.IncTailoringFailed()
		var unsupported *extract.UnsupportedFormatError
		switch {
		case errors.As(err, &unsupported):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", unsupported.Error(), gin.H{"mediaType": unsupported.MediaType})
		case errors.Is(err, extract.ErrEmptyDocument):
			respond.Error(c, http.StatusBadRequest, "validation_error", "document contains no extractable text", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create tailoring", nil)
		}
		return
	}

	metrics.IncTailoringCreated()
	c.Set("tailoringId", rec.ID)
	respond.JSON(c, http.StatusCreated, toResponse(rec))
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := DefaultListLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	recs, err := h.Svc.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list tailorings", nil)
		}
		return
	}

	resp := make([]TailoringSummary, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, toSummary(rec))
	}
	respond.OK(c, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	rec, err := h.Svc.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tailoring not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch tailoring", nil)
		}
		return
	}

	respond.OK(c, toResponse(rec))
}

type setResultRequest struct {
	TailoredText  string `json:"tailoredText"`
	TailoredLatex string `json:"tailoredLatex"`
}

func (h *Handler) setResult(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req setResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	err := h.Svc.SetResult(c.Request.Context(), userID, c.Param("id"), req.TailoredText, req.TailoredLatex)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "tailoring not found", nil)
		case errors.Is(err, ErrAlreadyTailored):
			respond.Error(c, http.StatusConflict, "already_tailored", "tailored result already set", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "tailoredText and tailoredLatex are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store tailored result", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}
