package server

import (
	"context"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shinkansenfinance/shinkansen-go/internal/config"
	"github.com/shinkansenfinance/shinkansen-go/internal/keyio"
	"github.com/shinkansenfinance/shinkansen-go/internal/message"
	"github.com/shinkansenfinance/shinkansen-go/internal/server/middleware"
)

// MessageHandler processes a verified response message. Returning an error
// causes the webhook to answer with a 500 so Shinkansen retries delivery.
type MessageHandler func(ctx context.Context, msg *message.ResponseMessage) error

type Server struct {
	config    *config.ServerEnvironment
	logger    *slog.Logger
	router    *chi.Mux
	whitelist []*x509.Certificate
	handler   MessageHandler

	expectedSender   message.FinancialInstitution
	expectedReceiver message.FinancialInstitution
}

func NewServer(
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
	handler MessageHandler,
) (*Server, error) {
	whitelist, err := keyio.ReadCertificatesFromPEMFile(cfg.CertWhitelistPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificate whitelist: %w", err)
	}

	server := &Server{
		config:           cfg,
		logger:           logger,
		router:           chi.NewRouter(),
		whitelist:        whitelist,
		handler:          handler,
		expectedSender:   message.NewFinancialInstitution(cfg.ExpectedSenderFinID),
		expectedReceiver: message.NewFinancialInstitution(cfg.ReceiverFinID),
	}

	logger.Info("certificate whitelist loaded",
		slog.String("path", cfg.CertWhitelistPath),
		slog.Int("certificates", len(whitelist)))

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

// Router returns the configured HTTP handler. Exposed for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(middleware.RequestLogging(s.logger))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestBytes))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Post("/shinkansen/messages", s.handleMessage)
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}
