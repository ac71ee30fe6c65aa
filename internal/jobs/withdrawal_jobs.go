package jobs

import (
	"context"
	"fmt"
	"time"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/logger"
)

// ExpireStaleWithdrawals auto-rejects pending withdrawal requests older than
// the configured expiry window and notifies the affected members.
func (jr *JobRunner) ExpireStaleWithdrawals() {
	jr.runWithRecovery("ExpireStaleWithdrawals", func() {
		ctx := context.Background()

		days := int32(jr.config.Withdrawal.PendingExpiryDays)
		note := fmt.Sprintf("auto-rejected: pending for more than %d days", days)

		expired, err := jr.store.WithdrawalRepository.RejectStale(ctx, days, note)
		if err != nil {
			logger.Error("Failed to expire stale withdrawals", "error", err)
			return
		}
		logger.Info("Expired stale withdrawals", "count", len(expired))

		for i := range expired {
			req := &expired[i]

			member, err := jr.store.MemberRepository.GetByID(ctx, req.MemberID)
			if err != nil {
				logger.Error("Failed to load member for expired withdrawal",
					"request_id", req.ID, "member_id", req.MemberID, "error", err)
				continue
			}

			if err := jr.emailSvc.SendWithdrawalDecisionNotification(ctx, member.Email, member.Name, req); err != nil {
				logger.Warn("Failed to email expiry notice",
					"request_id", req.ID, "member_id", member.ID, "error", err)
			}

			notification := &domain.Notification{
				MemberID: member.ID,
				Title:    "Withdrawal request expired",
				Message:  fmt.Sprintf("Your withdrawal request for %s was auto-rejected after %d days pending", req.Amount, days),
				Attributes: map[string]string{
					"type":       "WITHDRAWAL_EXPIRED",
					"request_id": fmt.Sprintf("%d", req.ID),
				},
			}
			if err := jr.store.NotificationRepository.Create(ctx, notification); err != nil {
				logger.Warn("Failed to create expiry notification",
					"request_id", req.ID, "member_id", member.ID, "error", err)
			}

			logger.Debug("Expired withdrawal request",
				"request_id", req.ID,
				"member_id", req.MemberID,
				"amount", req.Amount,
				"created_on", req.CreatedOn)
		}
	})
}

// SendPendingWithdrawalReminders walks every pending request and drops an
// in-app reminder into the feed of the authorizer expected to decide each
// aging one.
func (jr *JobRunner) SendPendingWithdrawalReminders() {
	jr.runWithRecovery("SendPendingWithdrawalReminders", func() {
		ctx := context.Background()

		cutoff := time.Now().Add(-time.Duration(jr.config.Withdrawal.ReminderAgeHours) * time.Hour)

		const pageSize = 100
		aging := 0
		reminded := 0
		oldest := time.Now()
		for page := int32(1); ; page++ {
			pending, _, err := jr.store.WithdrawalRepository.ListPending(ctx, page, pageSize)
			if err != nil {
				logger.Error("Failed to list pending withdrawals", "page", page, "error", err)
				return
			}
			if len(pending) == 0 {
				break
			}

			for i := range pending {
				req := &pending[i]
				if req.CreatedOn.After(cutoff) {
					continue
				}
				aging++
				if req.CreatedOn.Before(oldest) {
					oldest = req.CreatedOn
				}
				if jr.remindAuthorizer(ctx, req) {
					reminded++
				}
			}

			if len(pending) < pageSize {
				break
			}
		}

		if aging == 0 {
			logger.Info("No aging pending withdrawals")
			return
		}
		logger.Info("Pending withdrawals need attention",
			"aging", aging,
			"reminders_sent", reminded,
			"oldest_pending_since", oldest)
	})
}

// remindAuthorizer notifies the requesting member's upline, who is the one
// expected to decide the request. Requests without an upline are only logged.
func (jr *JobRunner) remindAuthorizer(ctx context.Context, req *domain.WithdrawalRequest) bool {
	member, err := jr.store.MemberRepository.GetByID(ctx, req.MemberID)
	if err != nil {
		logger.Warn("Failed to load member for pending reminder",
			"request_id", req.ID, "member_id", req.MemberID, "error", err)
		return false
	}
	if member.UplineID == nil {
		logger.Debug("Pending request has no upline to remind",
			"request_id", req.ID, "member_id", member.ID)
		return false
	}

	notification := &domain.Notification{
		MemberID: *member.UplineID,
		Title:    "Withdrawal request awaiting decision",
		Message: fmt.Sprintf("%s's withdrawal request for %s has been pending since %s",
			member.Name, req.Amount, req.CreatedOn.Format("2006-01-02")),
		Attributes: map[string]string{
			"type":       "WITHDRAWAL_REMINDER",
			"request_id": fmt.Sprintf("%d", req.ID),
		},
	}
	if err := jr.store.NotificationRepository.Create(ctx, notification); err != nil {
		logger.Warn("Failed to create pending reminder",
			"request_id", req.ID, "member_id", member.ID, "error", err)
		return false
	}
	return true
}
