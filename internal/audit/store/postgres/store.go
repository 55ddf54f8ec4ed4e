// Package postgres implements the audit ledger on PostgreSQL.
//
// Schema:
//
//	CREATE TABLE audit_entries (
//	    id            UUID PRIMARY KEY,
//	    identity_id   TEXT NOT NULL,
//	    role          TEXT NOT NULL DEFAULT '',
//	    patient_id    TEXT NOT NULL DEFAULT '',
//	    tier          TEXT NOT NULL DEFAULT '',
//	    action        TEXT NOT NULL,
//	    justification TEXT NOT NULL DEFAULT '',
//	    ai_label      TEXT NOT NULL DEFAULT '',
//	    ai_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    ip            TEXT NOT NULL DEFAULT '',
//	    status        TEXT NOT NULL,
//	    factors       JSONB,
//	    request_id    TEXT NOT NULL DEFAULT '',
//	    timestamp     TIMESTAMPTZ NOT NULL
//	);
//
// No UPDATE or DELETE is ever issued against this table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"medtrust/internal/audit"
)

// Store is the PostgreSQL-backed append-only ledger.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) error {
	factors, err := json.Marshal(entry.Factors)
	if err != nil {
		return fmt.Errorf("marshal audit factors: %w", err)
	}

	query := `
		INSERT INTO audit_entries (
			id, identity_id, role, patient_id, tier, action,
			justification, ai_label, ai_confidence, ip, status,
			factors, request_id, timestamp
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = s.db.ExecContext(ctx, query,
		entry.ID,
		entry.IdentityID,
		entry.Role,
		entry.PatientID,
		entry.Tier,
		string(entry.Action),
		entry.Justification,
		entry.AILabel,
		entry.AIConfidence,
		entry.IP,
		string(entry.Status),
		factors,
		entry.RequestID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.IdentityID != "" {
		conditions = append(conditions, "identity_id = "+arg(filter.IdentityID))
	}
	if filter.PatientID != "" {
		conditions = append(conditions, "patient_id = "+arg(filter.PatientID))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "timestamp >= "+arg(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "timestamp <= "+arg(filter.To))
	}

	query := `
		SELECT id, identity_id, role, patient_id, tier, action,
		       justification, ai_label, ai_confidence, ip, status,
		       factors, request_id, timestamp
		FROM audit_entries
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			entry   audit.Entry
			action  string
			status  string
			factors []byte
		)
		err := rows.Scan(
			&entry.ID,
			&entry.IdentityID,
			&entry.Role,
			&entry.PatientID,
			&entry.Tier,
			&action,
			&entry.Justification,
			&entry.AILabel,
			&entry.AIConfidence,
			&entry.IP,
			&status,
			&factors,
			&entry.RequestID,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entry.Action = audit.Action(action)
		entry.Status = audit.Status(status)
		if len(factors) > 0 {
			if err := json.Unmarshal(factors, &entry.Factors); err != nil {
				return nil, fmt.Errorf("unmarshal audit factors: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}
