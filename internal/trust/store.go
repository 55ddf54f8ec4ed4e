package trust

import "context"

// Store persists trust scores. Implementations create entries lazily with the
// configured default score; entries are never deleted.
//
// ApplyDelta must be a single atomic read-modify-write per key: concurrent
// deltas on the same key must all land. Lost updates are a correctness bug,
// not an acceptable race.
type Store interface {
	// Score returns the stored score, or the configured default for an
	// unseen key.
	Score(ctx context.Context, key Key) (float64, error)

	// ApplyDelta atomically adds delta to the current score (creating the
	// entry with the default if absent), clamps to [MinScore, MaxScore],
	// stamps last_updated, and returns the new value.
	ApplyDelta(ctx context.Context, key Key, delta float64) (float64, error)

	// SetFactors records an informational explanation of the current score.
	SetFactors(ctx context.Context, key Key, factors map[string]any) error
}
