package analyses

import (
	"context"
	"errors"
	"testing"
	"time"

	"wsid-backend/internal/analyses/ruleengine"
)

func TestMemoryRepoCreateAndGet(t *testing.T) {
	repo := NewMemoryRepo()
	record := Analysis{
		ID:        "a1",
		UserID:    "u1",
		Result:    ruleengine.FillSentinels(ruleengine.Result{Urgency: ruleengine.UrgencyUrgent}),
		Engine:    EngineLocal,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Result.Urgency != ruleengine.UrgencyUrgent {
		t.Fatalf("unexpected urgency: %s", got.Result.Urgency)
	}
}

func TestMemoryRepoGetMissing(t *testing.T) {
	repo := NewMemoryRepo()
	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepoListNewestFirstWithLimit(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.Create(context.Background(), Analysis{
			ID:        string(rune('a' + i)),
			UserID:    "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	got, err := repo.ListByUser(context.Background(), "u1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit applied, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("expected newest first, got %s then %s", got[0].ID, got[1].ID)
	}
}

func TestMemoryRepoListOtherUserEmpty(t *testing.T) {
	repo := NewMemoryRepo()
	_ = repo.Create(context.Background(), Analysis{ID: "a1", UserID: "u1", CreatedAt: time.Now()})
	got, err := repo.ListByUser(context.Background(), "u2", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records for other user, got %d", len(got))
	}
}
