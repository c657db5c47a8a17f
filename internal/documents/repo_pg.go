package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo wraps an existing connection pool.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, user_id, filename, content_type, size_bytes, storage_key, extracted_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		doc.ID,
		doc.UserID,
		doc.Filename,
		doc.ContentType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.ExtractedText,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, filename, content_type, size_bytes, storage_key, extracted_text, created_at
		FROM documents WHERE id = $1
	`, id)

	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Filename,
		&doc.ContentType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.ExtractedText,
		&doc.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, filename, content_type, size_bytes, storage_key, extracted_text, created_at
		FROM documents WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var doc Document
		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.Filename,
			&doc.ContentType,
			&doc.SizeBytes,
			&doc.StorageKey,
			&doc.ExtractedText,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
