package analyses

import "context"

// Repo persists analysis history records.
type Repo interface {
	Create(ctx context.Context, record Analysis) error
	GetByID(ctx context.Context, id string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error)
}
