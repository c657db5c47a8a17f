package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"wsid-backend/internal/extract"
	"wsid-backend/internal/shared/storage/object"
	"wsid-backend/internal/shared/telemetry"
)

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 10 << 20

// ErrEmptyDocument indicates an upload with no extractable text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

// Service stores uploads and extracts their plain text.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
	Now   func() time.Time
}

// NewService wires a document service.
func NewService(store object.ObjectStore, repo Repo) *Service {
	return &Service{Store: store, Repo: repo, Now: time.Now}
}

// Upload saves the file, extracts its text, and persists the record. The
// returned document carries the plain text the analysis pipeline consumes.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	limited := io.LimitReader(r, MaxUploadBytes+1)

	key, size, mimeType, err := s.Store.Save(ctx, userID, fileName, limited)
	if err != nil {
		return Document{}, fmt.Errorf("save upload: %w", err)
	}
	if size > MaxUploadBytes {
		return Document{}, fmt.Errorf("upload exceeds %d bytes", int64(MaxUploadBytes))
	}

	text, err := extract.Text(ctx, s.Store, key, mimeType, fileName)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}

	doc := Document{
		ID:            uuid.NewString(),
		UserID:        userID,
		Filename:      fileName,
		ContentType:   mimeType,
		SizeBytes:     size,
		StorageKey:    key,
		ExtractedText: text,
		CreatedAt:     s.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("persist document: %w", err)
	}

	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"user_id":     userID,
		"mime_type":   mimeType,
		"size_bytes":  size,
	})
	return doc, nil
}

// GetByID fetches one document owned by the user.
func (s *Service) GetByID(ctx context.Context, userID, id string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// ListByUser returns the user's uploads, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string, limit int) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}
