package jobs

import (
	"context"
	"time"

	"fieldforce-backend/internal/logger"
)

// TakeBalanceSnapshots records every wallet's balance for the current month.
// The insert is keyed on (member_id, month) so a re-run is a no-op.
func (jr *JobRunner) TakeBalanceSnapshots() {
	jr.runWithRecovery("TakeBalanceSnapshots", func() {
		ctx := context.Background()

		month := time.Now().UTC().Format("2006-01")
		count, err := jr.store.WalletRepository.TakeBalanceSnapshots(ctx, month)
		if err != nil {
			logger.Error("Failed to take balance snapshots", "month", month, "error", err)
			return
		}
		logger.Info("Took balance snapshots", "month", month, "count", count)
	})
}
