package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"wsid-backend/internal/analyses/ruleengine"
)

// PGRepo is the Postgres-backed Repo.
type PGRepo struct {
	db *sql.DB
}

// NewPGRepo wraps an existing connection pool.
func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{db: db}
}

func (r *PGRepo) Create(ctx context.Context, record Analysis) error {
	actions, err := json.Marshal(record.Result.Actions)
	if err != nil {
		return fmt.Errorf("marshal actions: %w", err)
	}
	deadlines, err := json.Marshal(record.Result.Deadlines)
	if err != nil {
		return fmt.Errorf("marshal deadlines: %w", err)
	}
	confusing, err := json.Marshal(record.Result.ConfusingParts)
	if err != nil {
		return fmt.Errorf("marshal confusing parts: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, user_id, document_id, source_text, summary, urgency, next_step, actions, deadlines, confusing_parts, engine, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		record.ID,
		record.UserID,
		nullString(record.DocumentID),
		record.SourceText,
		record.Result.Summary,
		record.Result.Urgency,
		record.Result.NextStep,
		actions,
		deadlines,
		string(confusing),
		record.Engine,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, document_id, source_text, summary, urgency, next_step, actions, deadlines, confusing_parts, engine, created_at
		FROM analyses WHERE id = $1
	`, id)
	record, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("get analysis: %w", err)
	}
	return record, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, document_id, source_text, summary, urgency, next_step, actions, deadlines, confusing_parts, engine, created_at
		FROM analyses WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var (
		record     Analysis
		documentID sql.NullString
		actions    []byte
		deadlines  []byte
		confusing  []byte
	)
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&documentID,
		&record.SourceText,
		&record.Result.Summary,
		&record.Result.Urgency,
		&record.Result.NextStep,
		&actions,
		&deadlines,
		&confusing,
		&record.Engine,
		&record.CreatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	record.DocumentID = documentID.String

	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &record.Result.Actions); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal actions: %w", err)
		}
	}
	if len(deadlines) > 0 {
		if err := json.Unmarshal(deadlines, &record.Result.Deadlines); err != nil {
			return Analysis{}, fmt.Errorf("unmarshal deadlines: %w", err)
		}
	}
	if len(confusing) > 0 {
		var parts []ruleengine.ConfusingPart
		if err := json.Unmarshal(confusing, &parts); err == nil {
			record.Result.ConfusingParts = parts
		}
	}
	record.Result = ruleengine.FillSentinels(record.Result)
	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)
