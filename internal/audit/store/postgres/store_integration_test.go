//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"medtrust/internal/audit"
	"medtrust/internal/audit/store/postgres"
	"medtrust/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "audit_entries"))
}

func (s *PostgresStoreSuite) appendAt(identityID string, ts time.Time) {
	s.Require().NoError(s.store.Append(s.ctx, audit.Entry{
		ID:           uuid.New(),
		IdentityID:   identityID,
		PatientID:    "p-1001",
		Tier:         "emergency",
		Action:       audit.ActionEmergencyAccess,
		AILabel:      "emergency",
		AIConfidence: 0.91,
		Status:       audit.StatusApproved,
		Factors:      map[string]any{"trust_score": 53.0},
		Timestamp:    ts,
	}))
}

func (s *PostgresStoreSuite) TestAppendAndQueryRoundTrip() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.appendAt("dr-a", base)
	s.appendAt("dr-b", base.Add(time.Hour))

	rows, err := s.store.Query(s.ctx, audit.Filter{})
	s.Require().NoError(err)
	s.Require().Len(rows, 2)

	// Newest first.
	s.Equal("dr-b", rows[0].IdentityID)
	s.Equal(audit.StatusApproved, rows[0].Status)
	s.Equal("emergency", rows[0].AILabel)
	s.InDelta(0.91, rows[0].AIConfidence, 0.001)
	s.InDelta(53.0, rows[0].Factors["trust_score"], 0.001)
}

func (s *PostgresStoreSuite) TestQueryFilters() {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.appendAt("dr-a", base)
	s.appendAt("dr-b", base.Add(time.Hour))
	s.appendAt("dr-a", base.Add(2*time.Hour))

	s.Run("by identity", func() {
		rows, err := s.store.Query(s.ctx, audit.Filter{IdentityID: "dr-a"})
		s.Require().NoError(err)
		s.Len(rows, 2)
	})

	s.Run("by time range", func() {
		rows, err := s.store.Query(s.ctx, audit.Filter{
			From: base.Add(30 * time.Minute),
			To:   base.Add(90 * time.Minute),
		})
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal("dr-b", rows[0].IdentityID)
	})

	s.Run("limit", func() {
		rows, err := s.store.Query(s.ctx, audit.Filter{Limit: 1})
		s.Require().NoError(err)
		s.Require().Len(rows, 1)
		s.Equal(base.Add(2*time.Hour), rows[0].Timestamp.UTC())
	})
}

// Same entry content appended twice is two rows; the ledger never coalesces.
func (s *PostgresStoreSuite) TestAppendOnly() {
	ts := time.Now().UTC().Truncate(time.Microsecond)
	s.appendAt("dr-a", ts)
	s.appendAt("dr-a", ts)

	rows, err := s.store.Query(s.ctx, audit.Filter{IdentityID: "dr-a"})
	s.Require().NoError(err)
	s.Len(rows, 2)
}
