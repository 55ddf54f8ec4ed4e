package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Service is the ledger facade for the decision engine. Recording is
// best-effort: a store failure must never block or reverse an access decision
// that has already been computed, but it must be visible to operators.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs the audit service.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record appends an entry, filling in ID and timestamp when unset. Failures
// are logged as warnings and swallowed.
func (s *Service) Record(ctx context.Context, entry Entry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := s.store.Append(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit append failed",
			"identity_id", entry.IdentityID,
			"action", entry.Action,
			"status", entry.Status,
			"error", err,
		)
	}
}

// Query returns ledger entries newest first.
func (s *Service) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	return s.store.Query(ctx, filter)
}
