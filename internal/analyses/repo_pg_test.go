package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"wsid-backend/internal/analyses/ruleengine"
)

func TestPGRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO analyses").
		WithArgs(
			"a1", "u1", sqlmock.AnyArg(), "Submit the form by Friday.",
			sqlmock.AnyArg(), "Important", sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			EngineLocal, sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPGRepo(db)
	record := Analysis{
		ID:         "a1",
		UserID:     "u1",
		SourceText: "Submit the form by Friday.",
		Result: ruleengine.FillSentinels(ruleengine.Result{
			Urgency:   ruleengine.UrgencyImportant,
			Deadlines: []string{"by Friday"},
		}),
		Engine:    EngineLocal,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{
		"id", "user_id", "document_id", "source_text", "summary", "urgency",
		"next_step", "actions", "deadlines", "confusing_parts", "engine", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id").
		WithArgs("a1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"a1", "u1", nil, "Submit the form by Friday.",
			"Submit the form <mark>by Friday</mark>.", "Important", "Submit the form by Friday.",
			[]byte(`["Submit the form by Friday."]`), []byte(`["by Friday"]`), []byte(`[]`),
			EngineLocal, time.Now(),
		))

	repo := NewPGRepo(db)
	got, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result.Urgency != ruleengine.UrgencyImportant {
		t.Fatalf("unexpected urgency: %s", got.Result.Urgency)
	}
	if len(got.Result.Deadlines) != 1 || got.Result.Deadlines[0] != "by Friday" {
		t.Fatalf("unexpected deadlines: %v", got.Result.Deadlines)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{
		"id", "user_id", "document_id", "source_text", "summary", "urgency",
		"next_step", "actions", "deadlines", "confusing_parts", "engine", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewPGRepo(db)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	cols := []string{
		"id", "user_id", "document_id", "source_text", "summary", "urgency",
		"next_step", "actions", "deadlines", "confusing_parts", "engine", "created_at",
	}
	mock.ExpectQuery("SELECT (.+) FROM analyses WHERE user_id").
		WithArgs("u1", 50).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("a2", "u1", nil, "text two", "", "Informational", "",
				[]byte(`[]`), []byte(`[]`), []byte(`[]`), EngineLocal, time.Now()).
			AddRow("a1", "u1", nil, "text one", "", "Urgent", "",
				[]byte(`[]`), []byte(`[]`), []byte(`[]`), EngineRemote, time.Now()))

	repo := NewPGRepo(db)
	got, err := repo.ListByUser(context.Background(), "u1", 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ID != "a2" || got[1].ID != "a1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Result.Actions[0] != ruleengine.NoActionSentinel {
		t.Fatalf("expected sentinel fill on scan, got %v", got[0].Result.Actions)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
