// Package postgres implements the trust store on PostgreSQL.
//
// Schema:
//
//	CREATE TABLE trust_scores (
//	    identity_id  TEXT NOT NULL,
//	    patient_id   TEXT NOT NULL DEFAULT '',
//	    score        DOUBLE PRECISION NOT NULL,
//	    factors      JSONB,
//	    last_updated TIMESTAMPTZ NOT NULL,
//	    PRIMARY KEY (identity_id, patient_id)
//	);
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medtrust/internal/trust"
)

// PostgresStore persists trust scores with row-level atomicity. Deltas use a
// single clamped UPSERT...RETURNING so concurrent writers on the same key
// cannot drop updates.
type PostgresStore struct {
	db           *sql.DB
	defaultScore float64
}

// NewPostgres constructs a PostgreSQL-backed trust store with the injected
// default score for unseen keys.
func NewPostgres(db *sql.DB, defaultScore float64) *PostgresStore {
	return &PostgresStore{db: db, defaultScore: trust.Clamp(defaultScore)}
}

func (s *PostgresStore) Score(ctx context.Context, key trust.Key) (float64, error) {
	query := `
		SELECT score FROM trust_scores
		WHERE identity_id = $1 AND patient_id = $2
	`
	var score float64
	err := s.db.QueryRowContext(ctx, query, key.IdentityID, key.PatientID).Scan(&score)
	if err == sql.ErrNoRows {
		return s.defaultScore, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get trust score: %w", err)
	}
	return score, nil
}

func (s *PostgresStore) ApplyDelta(ctx context.Context, key trust.Key, delta float64) (float64, error) {
	query := `
		INSERT INTO trust_scores (identity_id, patient_id, score, last_updated)
		VALUES ($1, $2, LEAST($6, GREATEST($5, $3 + $4)), $7)
		ON CONFLICT (identity_id, patient_id) DO UPDATE SET
			score = LEAST($6, GREATEST($5, trust_scores.score + $4)),
			last_updated = $7
		RETURNING score
	`
	var score float64
	err := s.db.QueryRowContext(ctx, query,
		key.IdentityID,
		key.PatientID,
		s.defaultScore,
		delta,
		trust.MinScore,
		trust.MaxScore,
		time.Now(),
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("apply trust delta: %w", err)
	}
	return score, nil
}

func (s *PostgresStore) SetFactors(ctx context.Context, key trust.Key, factors map[string]any) error {
	payload, err := json.Marshal(factors)
	if err != nil {
		return fmt.Errorf("marshal trust factors: %w", err)
	}

	query := `
		INSERT INTO trust_scores (identity_id, patient_id, score, factors, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (identity_id, patient_id) DO UPDATE SET
			factors = EXCLUDED.factors
	`
	_, err = s.db.ExecContext(ctx, query,
		key.IdentityID,
		key.PatientID,
		s.defaultScore,
		payload,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("set trust factors: %w", err)
	}
	return nil
}
