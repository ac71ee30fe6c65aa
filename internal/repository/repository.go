package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
)

type ZoneRepository interface {
	Create(ctx context.Context, zone *domain.Zone) error
	GetByID(ctx context.Context, id int32) (*domain.Zone, error)
	GetByCode(ctx context.Context, code string) (*domain.Zone, error)
	List(ctx context.Context) ([]domain.Zone, error)
}

type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id int32) (*domain.Team, error)
	ListByZone(ctx context.Context, zoneID int32) ([]domain.Team, error)
	// SetLead designates memberID as the team's lead, demoting any prior
	// lead. The membership check runs inside the same transaction.
	SetLead(ctx context.Context, teamID, memberID int32) error
	Summary(ctx context.Context, teamID int32) (*domain.TeamSummary, error)
}

type MemberRepository interface {
	Create(ctx context.Context, m *domain.Member) error
	GetByID(ctx context.Context, id int32) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	Update(ctx context.Context, m *domain.Member) error
	// AssignTeam attaches a member to a team, updating the role and the
	// optional upline edge. The member row is locked for the duration so
	// concurrent moves of the same member serialize.
	AssignTeam(ctx context.Context, memberID, teamID int32, role domain.Role, uplineID *int32) error
	// ReassignTeam moves a member to a different team in one atomic step,
	// clearing the old team's lead designation if the member held it.
	ReassignTeam(ctx context.Context, memberID, newTeamID int32) error
	SetActive(ctx context.Context, memberID int32, active bool) error
	SetPinHash(ctx context.Context, memberID int32, pinHash string) error
	ListByTeam(ctx context.Context, teamID int32) ([]domain.Member, error)
	// ListDownline returns every member reachable from leaderID through
	// upline edges, plus fellow team members when the leader heads a team.
	ListDownline(ctx context.Context, leaderID int32) ([]domain.Member, error)
	// CountRecruits returns active/inactive recruit counts per role for
	// each of the given members (index 0 active, index 1 inactive).
	CountRecruits(ctx context.Context, memberIDs []int32) (map[int32]map[domain.Role][2]int32, error)
}

type WalletRepository interface {
	// CreateForMember is a no-op returning the existing wallet if the
	// member already has one.
	CreateForMember(ctx context.Context, memberID int32, currency string) (*domain.Wallet, error)
	GetByMemberID(ctx context.Context, memberID int32) (*domain.Wallet, error)
	// Credit appends a completed credit transaction and raises the balance
	// in one atomic commit, holding the wallet row lock.
	Credit(ctx context.Context, memberID int32, txn *domain.Transaction) error
	// Debit appends a completed debit transaction and lowers the balance,
	// or returns domain.ErrInsufficientFunds with no state change. The
	// check-then-commit holds the wallet row lock so concurrent debits
	// cannot both pass against a stale balance.
	Debit(ctx context.Context, memberID int32, txn *domain.Transaction) error
	ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.Transaction, int32, error)
	TeamRollup(ctx context.Context, teamID int32) (*domain.Rollup, error)
	ZoneRollup(ctx context.Context, zoneID int32) (*domain.Rollup, error)
	// PeriodCreditTotals sums completed credits over the given members for
	// one YYYY-MM period, per category and per member.
	PeriodCreditTotals(ctx context.Context, memberIDs []int32, period string) (map[domain.TransactionCategory]decimal.Decimal, map[int32]decimal.Decimal, error)
	SumBalances(ctx context.Context, memberIDs []int32) (decimal.Decimal, error)
	TakeBalanceSnapshots(ctx context.Context, month string) (int64, error)
}

type WithdrawalRepository interface {
	Create(ctx context.Context, req *domain.WithdrawalRequest) error
	GetByID(ctx context.Context, id int32) (*domain.WithdrawalRequest, error)
	// Decide transitions a pending request to approved or rejected; any
	// other starting state returns domain.ErrInvalidState.
	Decide(ctx context.Context, id int32, approve bool, deciderID int32, note string) (*domain.WithdrawalRequest, error)
	// Settle performs the settlement commit for an approved request: it
	// locks the request and wallet rows, re-checks funds, and either writes
	// the debit transaction and completes the request, or marks the request
	// failed and returns domain.ErrInsufficientFunds. A request that is
	// already completed returns its linked transaction without debiting
	// again.
	Settle(ctx context.Context, id int32) (*domain.WithdrawalRequest, *domain.Transaction, error)
	ListByMember(ctx context.Context, memberID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	ListPending(ctx context.Context, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error)
	// RejectStale auto-rejects pending requests created before the cutoff
	// and returns the affected requests.
	RejectStale(ctx context.Context, olderThanDays int32, note string) ([]domain.WithdrawalRequest, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, memberID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, memberID int32) error
}
