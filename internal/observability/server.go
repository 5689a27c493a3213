// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natour Contributors

// Package observability provides HTTP endpoints for metrics and health checks.
package observability

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"
)

// ReadinessChecker returns whether the service is ready to accept requests.
type ReadinessChecker func() bool

// Package-level counters so services can record events without holding a
// Server instance.
var (
	loginFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "natour_login_failures_total",
			Help: "Total number of failed credential verifications",
		},
	)

	resetRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natour_reset_requests_total",
			Help: "Total number of password reset requests by outcome",
		},
		[]string{"outcome"},
	)

	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natour_authz_decisions_total",
			Help: "Total number of authorization decisions by effect",
		},
		[]string{"effect"},
	)

	membersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "natour_members_created_total",
			Help: "Total number of members created",
		},
	)

	tourOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "natour_tour_operations_total",
			Help: "Total number of tour operations by kind",
		},
		[]string{"kind"},
	)
)

// RecordLoginFailure increments the failed login counter.
func RecordLoginFailure() {
	loginFailures.Inc()
}

// RecordResetRequest increments the reset request counter for an outcome
// (accepted, rate_limited, failed).
func RecordResetRequest(outcome string) {
	resetRequests.WithLabelValues(outcome).Inc()
}

// RecordAuthzDecision increments the authorization decision counter for an
// effect (allow, deny).
func RecordAuthzDecision(effect string) {
	authzDecisions.WithLabelValues(effect).Inc()
}

// RecordMemberCreated increments the member creation counter.
func RecordMemberCreated() {
	membersCreated.Inc()
}

// RecordTourOperation increments the tour operation counter for a kind
// (create, update, delete, list).
func RecordTourOperation(kind string) {
	tourOperations.WithLabelValues(kind).Inc()
}

// registerDomainCounters attaches the package-level counters to a registry.
// The same collector instances may live in several registries.
func registerDomainCounters(reg prometheus.Registerer) {
	reg.MustRegister(loginFailures)
	reg.MustRegister(resetRequests)
	reg.MustRegister(authzDecisions)
	reg.MustRegister(membersCreated)
	reg.MustRegister(tourOperations)
}

// Server provides HTTP endpoints for observability (metrics and health probes).
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	isReady    ReadinessChecker
	running    atomic.Bool
}

// NewServer creates a new observability server.
// addr is a "host:port" listen address (e.g. "127.0.0.1:9100").
func NewServer(addr string, readinessChecker ReadinessChecker) *Server {
	// Use a fresh registry to avoid polluting the global one
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registerDomainCounters(registry)

	return &Server{
		addr:     addr,
		registry: registry,
		isReady:  readinessChecker,
	}
}

// Start begins serving observability endpoints.
// It returns an error channel that receives any errors from the HTTP server
// after it starts; the channel is closed when the server stops gracefully.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))

	// Kubernetes-style health probes
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)

	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		// Use local httpSrv to avoid a race with subsequent Start() calls
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the observability server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			// Restore running state so the server can be stopped again
			s.running.Store(true)
			return oops.With("operation", "shutdown_observability_server").Wrap(err)
		}
	}

	slog.Info("observability server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if stopped.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("ok\n"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.isReady == nil || s.isReady() {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // health check write error is acceptable, client may disconnect
		w.Write([]byte("ok\n"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	//nolint:errcheck // health check write error is acceptable, client may disconnect
	w.Write([]byte("not ready\n"))
}
