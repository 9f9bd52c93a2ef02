package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gtfel/sat-invoices/internal/auth"
	"github.com/gtfel/sat-invoices/internal/config"
	"github.com/gtfel/sat-invoices/internal/database"
	"github.com/gtfel/sat-invoices/internal/invoice"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second

	// DefaultShutdownTimeout bounds graceful shutdown
	DefaultShutdownTimeout = 30 * time.Second
)

// Processor runs the mailbox pipeline on demand
type Processor interface {
	ProcessUnread(ctx context.Context) (*invoice.Report, error)
}

// Server is the HTTP API for invoice queries, processing and user management
type Server struct {
	cfg       *config.Config
	db        *database.DB
	processor Processor
	tokens    *auth.Tokens
	logger    *slog.Logger

	ready      atomic.Bool
	httpServer *http.Server
}

// New assembles the server from its dependencies
func New(cfg *config.Config, db *database.DB, processor Processor, tokens *auth.Tokens, logger *slog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		db:        db,
		processor: processor,
		tokens:    tokens,
		logger:    logger,
	}
	s.ready.Store(true)
	return s
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleLiveness)
	mux.HandleFunc("GET /readyz", s.handleReadiness)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.Handle("POST /v1/invoices/process", s.requireAPIKey(s.handleProcess))
	mux.Handle("GET /v1/invoices/company-invoices", s.requireToken(s.handleCompanyInvoices))
	mux.Handle("GET /v1/invoices/company-invoice-count", s.requireToken(s.handleCompanyInvoiceCount))

	mux.HandleFunc("POST /v1/auth/accountant/token", s.handleAccountantToken)
	mux.HandleFunc("POST /v1/auth/accountant/refresh", s.handleAccountantRefresh)
	mux.HandleFunc("POST /v1/auth/company/token", s.handleCompanyToken)

	mux.Handle("POST /v1/users/accountant/register", s.requireAPIKey(s.handleAccountantRegister))
	mux.Handle("PATCH /v1/users/accountant/{email}/status", s.requireAPIKey(s.handleAccountantStatus))
	mux.Handle("POST /v1/users/company/register", s.requireAPIKey(s.handleCompanyRegister))

	return s.withRequestLogging(mux)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.cfg.Server.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.ready.Store(false)
	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
