//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema holds every table the integration suites touch. Applied once when
// the shared container starts.
const schema = `
CREATE TABLE IF NOT EXISTS trust_scores (
    identity_id  TEXT NOT NULL,
    patient_id   TEXT NOT NULL DEFAULT '',
    score        DOUBLE PRECISION NOT NULL,
    factors      JSONB,
    last_updated TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (identity_id, patient_id)
);

CREATE TABLE IF NOT EXISTS audit_entries (
    id            UUID PRIMARY KEY,
    identity_id   TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT '',
    patient_id    TEXT NOT NULL DEFAULT '',
    tier          TEXT NOT NULL DEFAULT '',
    action        TEXT NOT NULL,
    justification TEXT NOT NULL DEFAULT '',
    ai_label      TEXT NOT NULL DEFAULT '',
    ai_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
    ip            TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    factors       JSONB,
    request_id    TEXT NOT NULL DEFAULT '',
    timestamp     TIMESTAMPTZ NOT NULL
);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new PostgreSQL container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("medtrust"),
		tcpostgres.WithUsername("medtrust"),
		tcpostgres.WithPassword("medtrust"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	// No t.Cleanup: the container is shared via the singleton Manager and
	// Ryuk handles teardown.
	return &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}
}

// TruncateTables empties the given tables. Use between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	_, err := p.DB.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", strings.Join(tables, ", ")))
	return err
}
