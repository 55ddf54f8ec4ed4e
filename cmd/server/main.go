// main wires the decision engine, its stores, and the HTTP surface. Business
// logic lives in the internal packages; this file only selects backends from
// configuration and owns the server lifecycle.
package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	_ "github.com/lib/pq"

	"medtrust/internal/access"
	accesshandler "medtrust/internal/access/handler"
	accessmetrics "medtrust/internal/access/metrics"
	"medtrust/internal/analyzer"
	"medtrust/internal/audit"
	audithandler "medtrust/internal/audit/handler"
	auditmem "medtrust/internal/audit/store/memory"
	auditpg "medtrust/internal/audit/store/postgres"
	jwttoken "medtrust/internal/jwt_token"
	"medtrust/internal/network"
	"medtrust/internal/patient"
	"medtrust/internal/patient/crypto"
	"medtrust/internal/platform/config"
	"medtrust/internal/platform/httpserver"
	"medtrust/internal/platform/logger"
	"medtrust/internal/platform/metrics"
	platformredis "medtrust/internal/platform/redis"
	"medtrust/internal/trust"
	trustmem "medtrust/internal/trust/store/memory"
	trustpg "medtrust/internal/trust/store/postgres"
	trustredis "medtrust/internal/trust/store/redis"
	httptransport "medtrust/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cipher, err := fieldCipher(cfg, log)
	if err != nil {
		return err
	}

	classifier, err := network.NewClassifier(cfg.TrustedCIDR)
	if err != nil {
		return err
	}

	var (
		trustStore   trust.Store
		auditStore   audit.Store
		healthChecks = map[string]func(context.Context) error{}
	)
	switch {
	case cfg.DatabaseURL != "":
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping postgres: %w", err)
		}
		trustStore = trustpg.NewPostgres(db, cfg.TrustDefault)
		auditStore = auditpg.New(db)
		healthChecks["postgres"] = db.PingContext
		log.Info("using postgres stores")

	case cfg.RedisURL != "":
		rdb, err := platformredis.New(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rdb.Close()
		trustStore = trustredis.NewRedis(rdb.Client, cfg.TrustDefault)
		// Redis deployments keep the trust state durable; the ledger still
		// needs postgres for real durability, so dev mode falls back to memory.
		auditStore = auditmem.New()
		healthChecks["redis"] = rdb.Health
		log.Info("using redis trust store, in-memory audit store")

	default:
		trustStore = trustmem.New(cfg.TrustDefault)
		auditStore = auditmem.New()
		log.Warn("no store configured, state will not survive restarts")
	}

	directory := patient.NewInMemoryDirectory()
	if err := seedPatients(directory, cipher); err != nil {
		return fmt.Errorf("seed patient directory: %w", err)
	}

	policy := access.DefaultPolicy()
	policy.DefaultScore = cfg.TrustDefault
	policy.TrustThreshold = cfg.TrustThreshold

	auditSvc := audit.NewService(auditStore, log)
	engine, err := access.NewService(
		policy,
		classifier,
		trustStore,
		analyzer.NewClient(cfg.AnalyzerURL, cfg.AnalyzerTimeout),
		auditSvc,
		directory,
		cipher,
		access.WithLogger(log),
		access.WithMetrics(accessmetrics.New(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		return err
	}

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:         log,
		Access:         accesshandler.NewHandler(engine, log),
		Audit:          audithandler.NewHandler(auditSvc, log),
		TokenValidator: jwttoken.NewService(cfg.JWTSigningKey, "medtrust", "medtrust"),
		HTTPMetrics:    metrics.NewHTTP(),
		HealthChecks:   healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting medtrust", "addr", cfg.Addr, "trusted_cidr", cfg.TrustedCIDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// fieldCipher builds the patient field cipher from the configured hex key. A
// missing key gets an ephemeral one so dev setups work out of the box.
func fieldCipher(cfg config.Config, log *slog.Logger) (*crypto.FieldCipher, error) {
	if cfg.FieldKeyHex == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate field key: %w", err)
		}
		log.Warn("MEDTRUST_FIELD_KEY not set, using ephemeral key; ciphertext will not survive restarts")
		return crypto.NewFieldCipher(key)
	}

	key, err := hex.DecodeString(cfg.FieldKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode MEDTRUST_FIELD_KEY: %w", err)
	}
	return crypto.NewFieldCipher(key)
}

// seedPatients loads the development patient set with sensitive fields sealed.
// Production deployments replace the directory with the records system client.
func seedPatients(directory *patient.InMemoryDirectory, cipher *crypto.FieldCipher) error {
	seed := []patient.Record{
		{
			ID:        "p-1001",
			Name:      "John Doe",
			Age:       57,
			Diagnosis: "Hypertension",
			Treatment: "Lisinopril 10mg daily",
			Notes:     "Monitor blood pressure weekly",
		},
		{
			ID:        "p-1002",
			Name:      "Jane Smith",
			Age:       34,
			Diagnosis: "Type 2 Diabetes",
			Treatment: "Metformin 500mg twice daily",
			Notes:     "Quarterly HbA1c checks",
		},
		{
			ID:        "p-1003",
			Name:      "Robert Chen",
			Age:       71,
			Diagnosis: "Atrial Fibrillation",
			Treatment: "Apixaban 5mg twice daily",
			Notes:     "Cardiology follow-up in 3 months",
		},
	}

	for i := range seed {
		sealed, err := cipher.Encrypt(&seed[i])
		if err != nil {
			return err
		}
		directory.Add(sealed)
	}
	return nil
}
