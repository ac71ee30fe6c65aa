package service

import (
	"context"

	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
)

type HierarchyService interface {
	CreateZone(ctx context.Context, name, code string) (*domain.Zone, error)
	GetZone(ctx context.Context, zoneID int32) (*domain.Zone, error)
	ListZones(ctx context.Context) ([]domain.Zone, error)
	CreateTeam(ctx context.Context, zoneID int32, name, state string) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID int32) (*domain.Team, error)
	ListZoneTeams(ctx context.Context, zoneID int32) ([]domain.Team, error)
	CreateMember(ctx context.Context, name, email, phone string, role domain.Role) (*domain.Member, error)
	// AssignMember attaches an existing member to a team with the given
	// role, creating the member's wallet when absent. uplineEmail, when
	// non-empty, records who recruited the member.
	AssignMember(ctx context.Context, email string, role domain.Role, teamID int32, uplineEmail string) (*domain.Member, error)
	// ReassignMember moves a member to a different team atomically; the
	// member is never visible in zero or two teams.
	ReassignMember(ctx context.Context, email string, newTeamID int32) (*domain.Member, error)
	// SetTeamLead designates a member of the team as its lead, demoting any
	// prior lead.
	SetTeamLead(ctx context.Context, email string, teamID int32) (*domain.Team, error)
	SetMemberActive(ctx context.Context, memberID int32, active bool) (*domain.Member, error)
	ListTeamMembers(ctx context.Context, teamID int32) ([]domain.Member, error)
	TeamSummary(ctx context.Context, teamID int32) (*domain.TeamSummary, error)
}

type WalletService interface {
	// GetStatement returns the current balance and one page of transaction
	// history, newest first.
	GetStatement(ctx context.Context, memberID, page, pageSize int32) (*domain.WalletStatement, error)
	// Credit and Debit take an optional caller-supplied reference used as
	// the idempotency key; when empty a fresh one is generated. A retry with
	// the same reference returns the originally posted transaction.
	Credit(ctx context.Context, memberID int32, amount decimal.Decimal, category domain.TransactionCategory, description, reference string) (*domain.Transaction, error)
	Debit(ctx context.Context, memberID int32, amount decimal.Decimal, category domain.TransactionCategory, description, reference string) (*domain.Transaction, error)
	TeamRollup(ctx context.Context, teamID int32) (*domain.Rollup, error)
	ZoneRollup(ctx context.Context, zoneID int32) (*domain.Rollup, error)
}

type WithdrawalService interface {
	SetPin(ctx context.Context, memberID int32, pin string) error
	// CreateRequest opens a pending withdrawal. No funds are reserved; the
	// balance is checked at settlement. reference is an optional idempotency
	// key: a timeout retry carrying the same reference returns the request
	// the first attempt created instead of opening a second one.
	CreateRequest(ctx context.Context, memberID int32, amount decimal.Decimal, reference string) (*domain.WithdrawalRequest, error)
	Decide(ctx context.Context, requestID int32, approve bool, deciderID int32, note string) (*domain.WithdrawalRequest, error)
	// Settle verifies the member's PIN and moves the funds. Settling an
	// already-completed request returns the prior transaction without
	// debiting again.
	Settle(ctx context.Context, requestID int32, pin string) (*domain.WithdrawalRequest, *domain.Transaction, error)
	ListByMember(ctx context.Context, memberID, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	ListPending(ctx context.Context, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
}

type ReportService interface {
	// BuildPerformanceReport summarizes a leader's downline for a YYYY-MM
	// period: active/inactive splits, period earnings, and a deterministic
	// leaderboard.
	BuildPerformanceReport(ctx context.Context, leaderID int32, period string) (*domain.PerformanceReport, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, memberID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, memberID, notificationID int32) error
}

type EmailService interface {
	SendWithdrawalDecisionNotification(ctx context.Context, email, name string, req *domain.WithdrawalRequest) error
	SendWithdrawalSettledNotification(ctx context.Context, email, name string, req *domain.WithdrawalRequest, txn *domain.Transaction) error
	SendAssignmentNotification(ctx context.Context, email, name, teamName string) error
}
