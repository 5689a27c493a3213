// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/natour/natour/internal/auth"
	"github.com/natour/natour/internal/authz"
	"github.com/natour/natour/internal/config"
	"github.com/natour/natour/internal/logging"
	"github.com/natour/natour/internal/mail"
	"github.com/natour/natour/internal/member"
	memberpg "github.com/natour/natour/internal/member/postgres"
	"github.com/natour/natour/internal/store"
)

// serveConfig holds flags local to the serve command.
type serveConfig struct {
	autoMigrate bool
}

// Timeout for stopping the observability server during shutdown.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Natour backend",
		Long: `Start the Natour backend: connects to PostgreSQL, wires the
member, authorization and password-reset services, and exposes
metrics and health endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServeWithDeps(cmd.Context(), cmd, cfg, nil)
		},
	}

	cmd.Flags().BoolVar(&cfg.autoMigrate, "auto-migrate", true, "apply pending migrations on startup")
	cmd.Flags().String("database.url", "", "PostgreSQL connection URL")
	cmd.Flags().String("server.metrics_addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log.format", "json", "log format (json or text)")

	return cmd
}

// application holds the wired service graph for a running backend.
type application struct {
	Members  member.Repository
	Tours    member.TourRepository
	Auth     *auth.Service
	Reset    *auth.ResetService
	Authz    *authz.Engine
	Policies *authz.PolicyRepository
}

// warmPolicies preloads the per-role enforcers so a bad policy source fails
// startup instead of the first authorization.
func (a *application) warmPolicies(ctx context.Context) error {
	roles, err := a.Policies.Roles()
	if err != nil {
		return err
	}
	for _, role := range roles {
		if _, err := a.Policies.Enforcer(ctx, role); err != nil {
			return err
		}
	}
	slog.Info("authorization policies loaded", "roles", roles)
	return nil
}

// runServeWithDeps starts the backend with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cmd *cobra.Command, serveCfg *serveConfig, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.applyDefaults()

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("natour", version, cfg.Log.Format)

	databaseURL, err := resolveDatabaseURL(cfg)
	if err != nil {
		return err
	}

	if serveCfg.autoMigrate {
		if err := autoMigrate(deps, databaseURL); err != nil {
			return err
		}
	}

	pool, err := deps.PoolFactory(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	app, err := buildApplication(pool, cfg)
	if err != nil {
		return err
	}
	if err := app.warmPolicies(ctx); err != nil {
		return err
	}

	var obsErr <-chan error
	var obsServer ObservabilityServer
	if cfg.Server.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Server.MetricsAddr, store.Readiness(pool))
		obsErr, err = obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if stopErr := obsServer.Stop(stopCtx); stopErr != nil {
				slog.Error("observability server stop failed", "error", stopErr)
			}
		}()
		slog.Info("observability server listening", "addr", obsServer.Addr())
	}

	slog.Info("natour backend ready",
		"reset_daily_limit", cfg.Reset.DailyLimit,
		"metrics_addr", cfg.Server.MetricsAddr,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		slog.Info("shutting down", "reason", "context cancelled")
	case sig := <-sigCh:
		slog.Info("shutting down", "reason", sig.String())
	case err := <-obsErr:
		if err != nil {
			return oops.Code("OBSERVABILITY_FAILED").Wrap(err)
		}
	}

	return nil
}

// buildApplication wires repositories and services from a live pool.
func buildApplication(pool *pgxpool.Pool, cfg *config.Config) (*application, error) {
	members := memberpg.NewMemberRepository(pool)
	creds := memberpg.NewCredentialRepository(pool)
	tours := memberpg.NewTourRepository(pool)

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}

	if cfg.Auth.TokenSecret == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("auth.token_secret is required")
	}
	tokens, err := auth.NewJWTIssuer(
		[]byte(cfg.Auth.TokenSecret),
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)
	if err != nil {
		return nil, err
	}

	if cfg.SMTP.Host == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("smtp.host is required")
	}
	mailer, err := mail.NewSMTPTransport(
		cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From,
	)
	if err != nil {
		return nil, err
	}

	authSvc, err := auth.NewService(members, creds, hasher, tokens)
	if err != nil {
		return nil, err
	}

	resetSvc, err := auth.NewResetService(members, creds, hasher, mailer, auth.ResetConfig{
		DailyLimit: cfg.Reset.DailyLimit,
		AppURL:     cfg.App.URL,
	})
	if err != nil {
		return nil, err
	}

	policies := authz.NewPolicyRepository(cfg.Policy.Dir)
	engine, err := authz.NewEngine(policies)
	if err != nil {
		return nil, err
	}

	return &application{
		Members:  members,
		Tours:    tours,
		Auth:     authSvc,
		Reset:    resetSvc,
		Authz:    engine,
		Policies: policies,
	}, nil
}

// autoMigrate applies pending migrations, logging what was applied.
func autoMigrate(deps *ServeDeps, databaseURL string) error {
	migrator, err := deps.MigratorFactory(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Error("migrator close failed", "error", closeErr)
		}
	}()

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		slog.Info("database schema up to date")
		return nil
	}

	slog.Info("applying migrations", "pending", len(pending))
	if err := migrator.Up(); err != nil {
		return err
	}
	slog.Info("migrations applied", "count", len(pending))
	return nil
}

// resolveDatabaseURL prefers the config file and falls back to DATABASE_URL.
func resolveDatabaseURL(cfg *config.Config) (string, error) {
	if cfg.Database.URL != "" {
		return cfg.Database.URL, nil
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url, nil
	}
	return "", oops.Code("CONFIG_INVALID").Errorf("database.url or DATABASE_URL is required")
}
