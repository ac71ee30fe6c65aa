package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.ZoneRepository
	repository.TeamRepository
	repository.MemberRepository
	repository.WalletRepository
	repository.WithdrawalRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		ZoneRepository:         NewZoneRepository(db),
		TeamRepository:         NewTeamRepository(db),
		MemberRepository:       NewMemberRepository(db),
		WalletRepository:       NewWalletRepository(db),
		WithdrawalRepository:   NewWithdrawalRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// mapErr translates driver-level failures into the typed kinds callers
// check with errors.Is.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%s: %w", pqErr.Constraint, domain.ErrConflict)
	}
	return err
}
