package audit

import (
	"context"
	"time"
)

// Filter narrows a ledger query. Zero values mean "no constraint".
type Filter struct {
	IdentityID string
	PatientID  string
	From       time.Time
	To         time.Time
	// Limit caps the result count; 0 means no cap.
	Limit int
}

// Store persists audit entries. Append never deduplicates: replaying the same
// entry produces two rows, because the ledger is a true append-only log.
type Store interface {
	Append(ctx context.Context, entry Entry) error

	// Query returns matching entries newest first.
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}
