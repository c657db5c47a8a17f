package health

import (
	"context"
	"database/sql"
	"time"
)

// Service encapsulates health-related checks.
type Service struct {
	db *sql.DB
}

// NewService constructs a new health service. The db handle may be nil when
// running without persistence.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Status reports readiness of the process and its database, when configured.
func (s *Service) Status(ctx context.Context) map[string]any {
	out := map[string]any{"ok": true}
	if s.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(pingCtx); err != nil {
			out["ok"] = false
			out["database"] = "unreachable"
		} else {
			out["database"] = "ok"
		}
	}
	return out
}
