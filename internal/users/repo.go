package users

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// Repo persists user accounts.
type Repo interface {
	// Upsert creates the user or refreshes name and picture on an
	// existing email, returning the stored record.
	Upsert(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
