package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type walletService struct {
	walletRepo repository.WalletRepository
	memberRepo repository.MemberRepository
	commitWait time.Duration
}

func NewWalletService(walletRepo repository.WalletRepository, memberRepo repository.MemberRepository, commitWait time.Duration) WalletService {
	return &walletService{
		walletRepo: walletRepo,
		memberRepo: memberRepo,
		commitWait: commitWait,
	}
}

func (s *walletService) GetStatement(ctx context.Context, memberID, page, pageSize int32) (*domain.WalletStatement, error) {
	page, pageSize = normalizePage(page, pageSize)

	wallet, err := s.walletRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("wallet for member %d: %w", memberID, err)
	}
	txs, count, err := s.walletRepo.ListTransactions(ctx, wallet.ID, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &domain.WalletStatement{Wallet: *wallet, Transactions: txs, TotalCount: count}, nil
}

func (s *walletService) Credit(ctx context.Context, memberID int32, amount decimal.Decimal, category domain.TransactionCategory, description, reference string) (*domain.Transaction, error) {
	txn, err := s.newTransaction(ctx, memberID, amount, category, description, reference)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithTimeout(ctx, s.commitWait)
	defer cancel()
	if err := s.walletRepo.Credit(wctx, memberID, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *walletService) Debit(ctx context.Context, memberID int32, amount decimal.Decimal, category domain.TransactionCategory, description, reference string) (*domain.Transaction, error) {
	txn, err := s.newTransaction(ctx, memberID, amount, category, description, reference)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithTimeout(ctx, s.commitWait)
	defer cancel()
	if err := s.walletRepo.Debit(wctx, memberID, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *walletService) newTransaction(ctx context.Context, memberID int32, amount decimal.Decimal, category domain.TransactionCategory, description, reference string) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount %s must be strictly positive: %w", amount, domain.ErrInvalidAmount)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("unknown transaction category %q", category)
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("member %d: %w", memberID, err)
	}
	if reference == "" {
		reference = uuid.New().String()
	}
	return &domain.Transaction{
		Reference:   reference,
		Amount:      amount,
		Category:    category,
		Description: description,
	}, nil
}

func (s *walletService) TeamRollup(ctx context.Context, teamID int32) (*domain.Rollup, error) {
	return s.walletRepo.TeamRollup(ctx, teamID)
}

func (s *walletService) ZoneRollup(ctx context.Context, zoneID int32) (*domain.Rollup, error) {
	return s.walletRepo.ZoneRollup(ctx, zoneID)
}
