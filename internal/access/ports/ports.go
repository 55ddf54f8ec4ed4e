// Package ports defines the collaborator interfaces the decision engine
// depends on. They are declared here, not in the collaborator packages, to
// keep the engine's dependency surface explicit and mockable.
package ports

import (
	"context"

	"medtrust/internal/analyzer"
	"medtrust/internal/audit"
	"medtrust/internal/patient"
	"medtrust/internal/trust"
)

// NetworkClassifier reports trusted-subnet membership. Implementations must
// fail closed on malformed input.
type NetworkClassifier interface {
	IsTrusted(ip string) bool
}

// TrustStore is the mutable per-identity trust state. ApplyDelta must be
// atomic per key.
type TrustStore interface {
	Score(ctx context.Context, key trust.Key) (float64, error)
	ApplyDelta(ctx context.Context, key trust.Key, delta float64) (float64, error)
	SetFactors(ctx context.Context, key trust.Key, factors map[string]any) error
}

// Analyzer classifies free-text justifications. The engine treats any error
// as an (other, 0.0) classification.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (analyzer.Result, error)
}

// AuditLog records decisions. Recording is fire-and-forget from the engine's
// perspective; the implementation owns failure visibility.
type AuditLog interface {
	Record(ctx context.Context, entry audit.Entry)
}

// PatientDirectory resolves patient records by name.
type PatientDirectory interface {
	FindByName(ctx context.Context, name string) (*patient.Record, error)
}

// Decrypter opens the sensitive fields of a record for elevated-tier grants.
type Decrypter interface {
	Decrypt(rec *patient.Record) (*patient.Record, error)
}
