package service_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fieldforce-backend/internal/domain"
)

// MockZoneRepo
type MockZoneRepo struct {
	mock.Mock
}

func (m *MockZoneRepo) Create(ctx context.Context, zone *domain.Zone) error {
	args := m.Called(ctx, zone)
	return args.Error(0)
}
func (m *MockZoneRepo) GetByID(ctx context.Context, id int32) (*domain.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Zone), args.Error(1)
}
func (m *MockZoneRepo) GetByCode(ctx context.Context, code string) (*domain.Zone, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Zone), args.Error(1)
}
func (m *MockZoneRepo) List(ctx context.Context) ([]domain.Zone, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Zone), args.Error(1)
}

// MockTeamRepo
type MockTeamRepo struct {
	mock.Mock
}

func (m *MockTeamRepo) Create(ctx context.Context, team *domain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}
func (m *MockTeamRepo) GetByID(ctx context.Context, id int32) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}
func (m *MockTeamRepo) ListByZone(ctx context.Context, zoneID int32) ([]domain.Team, error) {
	args := m.Called(ctx, zoneID)
	return args.Get(0).([]domain.Team), args.Error(1)
}
func (m *MockTeamRepo) SetLead(ctx context.Context, teamID, memberID int32) error {
	args := m.Called(ctx, teamID, memberID)
	return args.Error(0)
}
func (m *MockTeamRepo) Summary(ctx context.Context, teamID int32) (*domain.TeamSummary, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamSummary), args.Error(1)
}

// MockMemberRepo
type MockMemberRepo struct {
	mock.Mock
}

func (m *MockMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}
func (m *MockMemberRepo) Update(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockMemberRepo) AssignTeam(ctx context.Context, memberID, teamID int32, role domain.Role, uplineID *int32) error {
	args := m.Called(ctx, memberID, teamID, role, uplineID)
	return args.Error(0)
}
func (m *MockMemberRepo) ReassignTeam(ctx context.Context, memberID, newTeamID int32) error {
	args := m.Called(ctx, memberID, newTeamID)
	return args.Error(0)
}
func (m *MockMemberRepo) SetActive(ctx context.Context, memberID int32, active bool) error {
	args := m.Called(ctx, memberID, active)
	return args.Error(0)
}
func (m *MockMemberRepo) SetPinHash(ctx context.Context, memberID int32, pinHash string) error {
	args := m.Called(ctx, memberID, pinHash)
	return args.Error(0)
}
func (m *MockMemberRepo) ListByTeam(ctx context.Context, teamID int32) ([]domain.Member, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) ListDownline(ctx context.Context, leaderID int32) ([]domain.Member, error) {
	args := m.Called(ctx, leaderID)
	return args.Get(0).([]domain.Member), args.Error(1)
}
func (m *MockMemberRepo) CountRecruits(ctx context.Context, memberIDs []int32) (map[int32]map[domain.Role][2]int32, error) {
	args := m.Called(ctx, memberIDs)
	return args.Get(0).(map[int32]map[domain.Role][2]int32), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) CreateForMember(ctx context.Context, memberID int32, currency string) (*domain.Wallet, error) {
	args := m.Called(ctx, memberID, currency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) GetByMemberID(ctx context.Context, memberID int32) (*domain.Wallet, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) Credit(ctx context.Context, memberID int32, txn *domain.Transaction) error {
	args := m.Called(ctx, memberID, txn)
	return args.Error(0)
}
func (m *MockWalletRepo) Debit(ctx context.Context, memberID int32, txn *domain.Transaction) error {
	args := m.Called(ctx, memberID, txn)
	return args.Error(0)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, walletID, page, pageSize int32) ([]domain.Transaction, int32, error) {
	args := m.Called(ctx, walletID, page, pageSize)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int32), args.Error(2)
}
func (m *MockWalletRepo) TeamRollup(ctx context.Context, teamID int32) (*domain.Rollup, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rollup), args.Error(1)
}
func (m *MockWalletRepo) ZoneRollup(ctx context.Context, zoneID int32) (*domain.Rollup, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rollup), args.Error(1)
}
func (m *MockWalletRepo) PeriodCreditTotals(ctx context.Context, memberIDs []int32, period string) (map[domain.TransactionCategory]decimal.Decimal, map[int32]decimal.Decimal, error) {
	args := m.Called(ctx, memberIDs, period)
	return args.Get(0).(map[domain.TransactionCategory]decimal.Decimal), args.Get(1).(map[int32]decimal.Decimal), args.Error(2)
}
func (m *MockWalletRepo) SumBalances(ctx context.Context, memberIDs []int32) (decimal.Decimal, error) {
	args := m.Called(ctx, memberIDs)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockWalletRepo) TakeBalanceSnapshots(ctx context.Context, month string) (int64, error) {
	args := m.Called(ctx, month)
	return args.Get(0).(int64), args.Error(1)
}

// MockWithdrawalRepo
type MockWithdrawalRepo struct {
	mock.Mock
}

func (m *MockWithdrawalRepo) Create(ctx context.Context, req *domain.WithdrawalRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockWithdrawalRepo) GetByID(ctx context.Context, id int32) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}
func (m *MockWithdrawalRepo) Decide(ctx context.Context, id int32, approve bool, deciderID int32, note string) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, id, approve, deciderID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}
func (m *MockWithdrawalRepo) Settle(ctx context.Context, id int32) (*domain.WithdrawalRequest, *domain.Transaction, error) {
	args := m.Called(ctx, id)
	var req *domain.WithdrawalRequest
	var txn *domain.Transaction
	if args.Get(0) != nil {
		req = args.Get(0).(*domain.WithdrawalRequest)
	}
	if args.Get(1) != nil {
		txn = args.Get(1).(*domain.Transaction)
	}
	return req, txn, args.Error(2)
}
func (m *MockWithdrawalRepo) ListByMember(ctx context.Context, memberID, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	args := m.Called(ctx, memberID, page, pageSize)
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) ListPending(ctx context.Context, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.WithdrawalRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockWithdrawalRepo) RejectStale(ctx context.Context, olderThanDays int32, note string) ([]domain.WithdrawalRequest, error) {
	args := m.Called(ctx, olderThanDays, note)
	return args.Get(0).([]domain.WithdrawalRequest), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, memberID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, memberID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, memberID int32) error {
	args := m.Called(ctx, id, memberID)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWithdrawalDecisionNotification(ctx context.Context, email, name string, req *domain.WithdrawalRequest) error {
	args := m.Called(ctx, email, name, req)
	return args.Error(0)
}
func (m *MockEmailService) SendWithdrawalSettledNotification(ctx context.Context, email, name string, req *domain.WithdrawalRequest, txn *domain.Transaction) error {
	args := m.Called(ctx, email, name, req, txn)
	return args.Error(0)
}
func (m *MockEmailService) SendAssignmentNotification(ctx context.Context, email, name, teamName string) error {
	args := m.Called(ctx, email, name, teamName)
	return args.Error(0)
}
