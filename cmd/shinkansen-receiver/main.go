package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shinkansenfinance/shinkansen-go/internal/config"
	"github.com/shinkansenfinance/shinkansen-go/internal/logger"
	"github.com/shinkansenfinance/shinkansen-go/internal/message"
	"github.com/shinkansenfinance/shinkansen-go/internal/server"
	"github.com/shinkansenfinance/shinkansen-go/internal/version"
)

// Webhook receiver for asynchronous Shinkansen response messages
func main() {
	cmd := &cobra.Command{
		Use:   "shinkansen-receiver",
		Short: "Shinkansen webhook receiver",
		Long:  `Webhook receiver that verifies and processes asynchronous Shinkansen response messages`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("CERT_WHITELIST_PATH", cfg.CertWhitelistPath),
		slog.String("RECEIVER_FIN_ID", cfg.ReceiverFinID),
		slog.String("EXPECTED_SENDER_FIN_ID", cfg.ExpectedSenderFinID),
	)

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// configure the server
	server, err := server.NewServer(cfg, appLogger, logResponses(appLogger))
	if err != nil {
		appLogger.Error("Failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// start the server
	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}

// logResponses returns a handler that logs each transaction response. Real
// deployments replace this with their own processing.
func logResponses(appLogger *slog.Logger) server.MessageHandler {
	return func(ctx context.Context, msg *message.ResponseMessage) error {
		for _, response := range msg.Responses {
			base := response.Base()
			appLogger.Info("transaction response",
				slog.String("message_id", msg.Header.MessageID),
				slog.String("transaction_id", base.TransactionID),
				slog.String("transaction_type", base.TransactionType),
				slog.String("status", base.ResponseStatus),
				slog.Bool("ok", base.IsOK()))
		}
		return nil
	}
}
