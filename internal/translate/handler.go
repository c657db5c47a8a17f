package translate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wsid-backend/internal/shared/metrics"
	"wsid-backend/internal/shared/server/respond"
)

// Handler exposes the translation endpoint.
type Handler struct {
	Client *Client
}

// NewHandler constructs the handler.
func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
}

// Translate handles POST /api/v1/translate.
func (h *Handler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "invalid JSON body", nil)
		return
	}
	if req.Target == "" {
		respond.Error(c, http.StatusBadRequest, "bad_request", "target language is required", nil)
		return
	}

	metrics.IncTranslateRequest()

	out, err := h.Client.Translate(c.Request.Context(), req.Text, req.Target)
	if errors.Is(err, ErrEmptyText) {
		respond.Error(c, http.StatusBadRequest, "bad_request", "text is required", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "translate_failed", "translation provider unavailable", nil)
		return
	}

	respond.OK(c, gin.H{"translatedText": out, "target": req.Target})
}
