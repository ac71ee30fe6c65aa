package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/logger"
	"fieldforce-backend/internal/repository"
	"fieldforce-backend/internal/security"
)

type withdrawalService struct {
	withdrawalRepo repository.WithdrawalRepository
	walletRepo     repository.WalletRepository
	memberRepo     repository.MemberRepository
	noteRepo       repository.NotificationRepository
	emailSvc       EmailService
	minimumAmount  decimal.Decimal
	commitWait     time.Duration
}

func NewWithdrawalService(
	withdrawalRepo repository.WithdrawalRepository,
	walletRepo repository.WalletRepository,
	memberRepo repository.MemberRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	minimumAmount decimal.Decimal,
	commitWait time.Duration,
) WithdrawalService {
	return &withdrawalService{
		withdrawalRepo: withdrawalRepo,
		walletRepo:     walletRepo,
		memberRepo:     memberRepo,
		noteRepo:       noteRepo,
		emailSvc:       emailSvc,
		minimumAmount:  minimumAmount,
		commitWait:     commitWait,
	}
}

func (s *withdrawalService) SetPin(ctx context.Context, memberID int32, pin string) error {
	hash, err := security.HashPin(pin)
	if err != nil {
		return err
	}
	return s.memberRepo.SetPinHash(ctx, memberID, hash)
}

func (s *withdrawalService) CreateRequest(ctx context.Context, memberID int32, amount decimal.Decimal, reference string) (*domain.WithdrawalRequest, error) {
	if !amount.IsPositive() || amount.LessThan(s.minimumAmount) {
		return nil, fmt.Errorf("amount %s below minimum withdrawal %s: %w",
			amount, s.minimumAmount, domain.ErrInvalidAmount)
	}
	if _, err := s.memberRepo.GetByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("member %d: %w", memberID, err)
	}
	// The wallet must exist, but no funds are reserved here: the balance is
	// only checked when the approved request settles.
	if _, err := s.walletRepo.GetByMemberID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("wallet for member %d: %w", memberID, err)
	}

	req := &domain.WithdrawalRequest{MemberID: memberID, Amount: amount, Reference: reference}
	wctx, cancel := context.WithTimeout(ctx, s.commitWait)
	defer cancel()
	if err := s.withdrawalRepo.Create(wctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *withdrawalService) Decide(ctx context.Context, requestID int32, approve bool, deciderID int32, note string) (*domain.WithdrawalRequest, error) {
	wctx, cancel := context.WithTimeout(ctx, s.commitWait)
	defer cancel()
	req, err := s.withdrawalRepo.Decide(wctx, requestID, approve, deciderID, note)
	if err != nil {
		return nil, err
	}

	s.notifyDecision(ctx, req)
	return req, nil
}

func (s *withdrawalService) Settle(ctx context.Context, requestID int32, pin string) (*domain.WithdrawalRequest, *domain.Transaction, error) {
	req, err := s.withdrawalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, nil, fmt.Errorf("request %d: %w", requestID, err)
	}
	member, err := s.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		return nil, nil, fmt.Errorf("member %d: %w", req.MemberID, err)
	}

	// PIN gate first: a mismatch leaves the request exactly as found, so
	// the caller can retry with the right credential.
	if err := security.VerifyPin(member.PinHash, pin); err != nil {
		return nil, nil, err
	}

	wctx, cancel := context.WithTimeout(ctx, s.commitWait)
	defer cancel()
	req, txn, err := s.withdrawalRepo.Settle(wctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) && req != nil {
			// The request transitioned to failed; tell the member.
			s.notifySettlement(ctx, member, req, nil)
		}
		return req, nil, err
	}

	s.notifySettlement(ctx, member, req, txn)
	return req, txn, nil
}

func (s *withdrawalService) ListByMember(ctx context.Context, memberID, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.withdrawalRepo.ListByMember(ctx, memberID, page, pageSize)
}

func (s *withdrawalService) ListPending(ctx context.Context, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.withdrawalRepo.ListPending(ctx, page, pageSize)
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func (s *withdrawalService) notifyDecision(ctx context.Context, req *domain.WithdrawalRequest) {
	member, err := s.memberRepo.GetByID(ctx, req.MemberID)
	if err != nil {
		logger.Warn("decision notification skipped", "request_id", req.ID, "error", err)
		return
	}

	if err := s.emailSvc.SendWithdrawalDecisionNotification(ctx, member.Email, member.Name, req); err != nil {
		logger.Warn("decision email failed", "request_id", req.ID, "error", err)
	}

	note := &domain.Notification{
		MemberID: member.ID,
		Title:    "Withdrawal " + string(req.Status),
		Message:  fmt.Sprintf("Your withdrawal request for %s was %s", req.Amount, req.Status),
		Attributes: map[string]string{
			"type":       "WITHDRAWAL_DECISION",
			"request_id": fmt.Sprintf("%d", req.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("decision notification failed", "request_id", req.ID, "error", err)
	}
}

func (s *withdrawalService) notifySettlement(ctx context.Context, member *domain.Member, req *domain.WithdrawalRequest, txn *domain.Transaction) {
	if err := s.emailSvc.SendWithdrawalSettledNotification(ctx, member.Email, member.Name, req, txn); err != nil {
		logger.Warn("settlement email failed", "request_id", req.ID, "error", err)
	}

	message := fmt.Sprintf("Your withdrawal of %s failed: insufficient funds", req.Amount)
	if req.Status == domain.WithdrawalStatusCompleted {
		message = fmt.Sprintf("Your withdrawal of %s has been paid out", req.Amount)
	}
	note := &domain.Notification{
		MemberID: member.ID,
		Title:    "Withdrawal " + string(req.Status),
		Message:  message,
		Attributes: map[string]string{
			"type":       "WITHDRAWAL_SETTLEMENT",
			"request_id": fmt.Sprintf("%d", req.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("settlement notification failed", "request_id", req.ID, "error", err)
	}
}
