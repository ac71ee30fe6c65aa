package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "fieldforce-backend/internal/api/http"
	"fieldforce-backend/internal/config"
	"fieldforce-backend/internal/logger"
	"fieldforce-backend/internal/repository/postgres"
	"fieldforce-backend/internal/security"
	"fieldforce-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fieldforce Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)

	// Initialize Services
	commitWait := cfg.CommitDeadline()
	hierarchySvc := service.NewHierarchyService(
		store.ZoneRepository,
		store.TeamRepository,
		store.MemberRepository,
		store.WalletRepository,
		store.NotificationRepository,
		emailSvc,
		commitWait,
	)
	walletSvc := service.NewWalletService(
		store.WalletRepository,
		store.MemberRepository,
		commitWait,
	)
	withdrawalSvc := service.NewWithdrawalService(
		store.WithdrawalRepository,
		store.WalletRepository,
		store.MemberRepository,
		store.NotificationRepository,
		emailSvc,
		cfg.MinimumWithdrawal(),
		commitWait,
	)
	reportSvc := service.NewReportService(store.MemberRepository, store.WalletRepository)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up HTTP server
	server := httpapi.NewServer(cfg.GetServerAddress(), tokenManager, httpapi.Services{
		Hierarchy:    hierarchySvc,
		Wallet:       walletSvc,
		Withdrawal:   withdrawalSvc,
		Report:       reportSvc,
		Notification: noteSvc,
	})

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
