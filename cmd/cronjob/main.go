package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"fieldforce-backend/internal/config"
	"fieldforce-backend/internal/jobs"
	"fieldforce-backend/internal/logger"
	"fieldforce-backend/internal/repository/postgres"
	"fieldforce-backend/internal/scheduler"
	"fieldforce-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-stale-withdrawals', 'all-nightly', 'all-monthly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Fieldforce Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Email Service
	emailService := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store, emailService, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "expire-stale-withdrawals":
		jobRunner.ExpireStaleWithdrawals()
	case "send-pending-reminders":
		jobRunner.SendPendingWithdrawalReminders()
	case "take-balance-snapshots":
		jobRunner.TakeBalanceSnapshots()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	case "all-monthly":
		jobRunner.RunAllMonthlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-stale-withdrawals\n")
		fmt.Printf("  - send-pending-reminders\n")
		fmt.Printf("  - take-balance-snapshots\n")
		fmt.Printf("  - all-nightly\n")
		fmt.Printf("  - all-monthly\n")
		os.Exit(1)
	}
}
