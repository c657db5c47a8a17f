package documents

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wsid-backend/internal/extract"
	"wsid-backend/internal/shared/server/middleware"
	"wsid-backend/internal/shared/server/respond"
)

// Handler exposes the document endpoints.
type Handler struct {
	Service *Service
}

// NewHandler constructs the handler.
func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// Upload handles POST /api/v1/documents (multipart form, field "file").
func (h *Handler) Upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "file field is required", nil)
		return
	}
	if fileHeader.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "too_large", "file exceeds upload limit", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "bad_request", "could not read uploaded file", nil)
		return
	}
	defer f.Close()

	doc, err := h.Service.Upload(c.Request.Context(), userID, fileHeader.Filename, f)
	if errors.Is(err, extract.ErrUnsupported) {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_format", "only PDF, DOCX, and plain text uploads are supported", nil)
		return
	}
	if errors.Is(err, ErrEmptyDocument) {
		respond.Error(c, http.StatusUnprocessableEntity, "empty_document", "no text could be extracted from the file", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to store document", nil)
		return
	}

	c.Set("documentId", doc.ID)
	respond.JSON(c, http.StatusCreated, doc)
}

// Get handles GET /api/v1/documents/:id.
func (h *Handler) Get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	doc, err := h.Service.GetByID(c.Request.Context(), userID, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		return
	}
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to fetch document", nil)
		return
	}
	c.Set("documentId", doc.ID)
	respond.OK(c, doc)
}

// List handles GET /api/v1/documents.
func (h *Handler) List(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	docs, err := h.Service.ListByUser(c.Request.Context(), userID, 50)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to list documents", nil)
		return
	}
	if docs == nil {
		docs = []Document{}
	}
	respond.OK(c, gin.H{"documents": docs})
}
