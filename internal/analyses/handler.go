package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wsid-backend/internal/llm"
	"wsid-backend/internal/shared/server/middleware"
	"wsid-backend/internal/shared/server/respond"
)

const maxBatchItems = 20

// Handler exposes the analysis endpoints.
type Handler struct {
	Service *Service
	Keys    *llm.KeyTable
}

// NewHandler constructs the handler.
func NewHandler(service *Service, keys *llm.KeyTable) *Handler {
	return &Handler{Service: service, Keys: keys}
}

type analyzeRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode,omitempty"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

// Analyze handles POST /api/v1/analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		respond.Error(c, http.StatusBadRequest, "bad_request", "text is required", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)

	var (
		record Analysis
		err    error
	)
	if req.Mode == "fast" {
		record, err = h.Service.AnalyzeFast(c.Request.Context(), userID, req.Text)
	} else {
		record, err = h.Service.Analyze(c.Request.Context(), userID, req.Text)
	}
	if err != nil {
		h.respondAnalysisError(c, err)
		return
	}

	c.Set("analysisId", record.ID)
	c.Set("analysisPath", record.Engine)
	respond.OK(c, record)
}

// AnalyzeBatch handles POST /api/v1/analyze/batch.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	if len(req.Texts) == 0 {
		respond.Error(c, http.StatusBadRequest, "bad_request", "texts is required", nil)
		return
	}
	if len(req.Texts) > maxBatchItems {
		respond.Error(c, http.StatusBadRequest, "bad_request", "too many texts in one batch", gin.H{"max": maxBatchItems})
		return
	}

	userID := middleware.UserIDFromContext(c)
	results := h.Service.AnalyzeBatch(c.Request.Context(), userID, req.Texts)
	respond.OK(c, gin.H{"results": results})
}

// List handles GET /api/v1/analyses.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.Service.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list analyses", nil)
		return
	}
	if records == nil {
		records = []Analysis{}
	}
	respond.OK(c, gin.H{"analyses": records})
}

// Get handles GET /api/v1/analyses/:id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	id := c.Param("id")

	record, err := h.Service.GetByID(c.Request.Context(), userID, id)
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to fetch analysis", nil)
		return
	}
	c.Set("analysisId", record.ID)
	respond.OK(c, record)
}

// KeysStatus handles GET /api/v1/keys/status.
func (h *Handler) KeysStatus(c *gin.Context) {
	if h.Keys == nil {
		respond.OK(c, gin.H{"keys": []llm.KeyStatus{}})
		return
	}
	respond.OK(c, gin.H{"keys": h.Keys.Snapshot()})
}

// KeysReset handles POST /api/v1/keys/reset.
func (h *Handler) KeysReset(c *gin.Context) {
	if h.Keys != nil {
		h.Keys.Reset()
	}
	respond.OK(c, gin.H{"reset": true})
}

func (h *Handler) respondAnalysisError(c *gin.Context, err error) {
	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) {
		switch analysisErr.Code {
		case ErrorCodeInputTooShort:
			respond.Error(c, http.StatusBadRequest, "input_too_short", analysisErr.Message, nil)
			return
		case ErrorCodeAllKeysExhausted:
			c.Header("Retry-After", "60")
			respond.Error(c, http.StatusServiceUnavailable, "keys_exhausted", analysisErr.Message, gin.H{"retryable": true})
			return
		}
	}
	respond.Error(c, http.StatusInternalServerError, "internal", "analysis failed", nil)
}
