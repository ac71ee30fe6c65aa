package jobs

import (
	"fieldforce-backend/internal/config"
	"fieldforce-backend/internal/logger"
	"fieldforce-backend/internal/repository/postgres"
	"fieldforce-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *postgres.Store
	emailSvc service.EmailService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, emailSvc service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		emailSvc: emailSvc,
		config:   cfg,
	}
}

// Config exposes the loaded configuration for the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireStaleWithdrawals()
	jr.SendPendingWithdrawalReminders()
}

// RunAllMonthlyJobs runs all monthly jobs (for manual execution)
func (jr *JobRunner) RunAllMonthlyJobs() {
	jr.TakeBalanceSnapshots()
}
