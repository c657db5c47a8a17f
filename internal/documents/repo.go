package documents

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Repo persists document records.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, id string) (Document, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Document, error)
}
