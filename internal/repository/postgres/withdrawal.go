package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type withdrawalRepository struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) repository.WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

const withdrawalColumns = `id, reference, member_id, amount, status, transaction_id, decided_by, COALESCE(note, ''), created_on, decided_on, settled_on`

func scanWithdrawal(row interface{ Scan(...any) error }) (*domain.WithdrawalRequest, error) {
	req := &domain.WithdrawalRequest{}
	err := row.Scan(&req.ID, &req.Reference, &req.MemberID, &req.Amount, &req.Status,
		&req.TransactionID, &req.DecidedBy, &req.Note, &req.CreatedOn, &req.DecidedOn, &req.SettledOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return req, nil
}

// Create inserts a pending request. A caller-supplied reference is the
// idempotency key: retrying with the same reference after a timeout returns
// the request the first attempt committed instead of creating a duplicate.
func (r *withdrawalRepository) Create(ctx context.Context, req *domain.WithdrawalRequest) error {
	query := `INSERT INTO withdrawal_requests (reference, member_id, amount, status, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if req.Reference == "" {
		req.Reference = uuid.New().String()
	}
	req.Status = domain.WithdrawalStatusPending
	req.CreatedOn = time.Now().UTC()
	err := mapErr(r.db.QueryRowContext(ctx, query,
		req.Reference, req.MemberID, req.Amount, req.Status, req.CreatedOn).Scan(&req.ID))
	if errors.Is(err, domain.ErrConflict) {
		existing, lookupErr := r.getByReference(ctx, req.Reference)
		if lookupErr != nil {
			return err
		}
		*req = *existing
		return nil
	}
	return err
}

func (r *withdrawalRepository) getByReference(ctx context.Context, reference string) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE reference = $1`
	return scanWithdrawal(r.db.QueryRowContext(ctx, query, reference))
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id int32) (*domain.WithdrawalRequest, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests WHERE id = $1`
	return scanWithdrawal(r.db.QueryRowContext(ctx, query, id))
}

func (r *withdrawalRepository) Decide(ctx context.Context, id int32, approve bool, deciderID int32, note string) (*domain.WithdrawalRequest, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, mapErr(err)
	}
	defer tx.Rollback()

	var status domain.WithdrawalStatus
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		return nil, mapErr(err)
	}
	if status != domain.WithdrawalStatusPending {
		return nil, fmt.Errorf("request %d is %s, not pending: %w", id, status, domain.ErrInvalidState)
	}

	next := domain.WithdrawalStatusRejected
	if approve {
		next = domain.WithdrawalStatusApproved
	}
	req, err := scanWithdrawal(tx.QueryRowContext(ctx,
		`UPDATE withdrawal_requests SET status=$1, decided_by=$2, note=$3, decided_on=$4
		 WHERE id=$5 RETURNING `+withdrawalColumns,
		next, deciderID, note, time.Now().UTC(), id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, mapErr(err)
	}
	return req, nil
}

// Settle commits the settlement of an approved request. Request and wallet
// rows are locked in one transaction: success writes the debit transaction
// and completes the request; a short balance marks the request failed
// (terminal) with no funds moved. Replaying a completed request returns its
// linked transaction without touching the wallet.
func (r *withdrawalRepository) Settle(ctx context.Context, id int32) (*domain.WithdrawalRequest, *domain.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, mapErr(err)
	}
	defer tx.Rollback()

	req, err := scanWithdrawal(tx.QueryRowContext(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawal_requests WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, nil, err
	}

	if req.Status == domain.WithdrawalStatusCompleted {
		txn, err := r.getTransactionTx(ctx, tx, *req.TransactionID)
		if err != nil {
			return nil, nil, err
		}
		return req, txn, nil
	}
	if req.Status != domain.WithdrawalStatusApproved {
		return nil, nil, fmt.Errorf("request %d is %s, not approved: %w", id, req.Status, domain.ErrInvalidState)
	}

	var walletID int32
	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT id, balance FROM wallets WHERE member_id = $1 FOR UPDATE`, req.MemberID).
		Scan(&walletID, &balance)
	if err != nil {
		return nil, nil, mapErr(err)
	}

	now := time.Now().UTC()
	if balance.LessThan(req.Amount) {
		req, err = scanWithdrawal(tx.QueryRowContext(ctx,
			`UPDATE withdrawal_requests SET status=$1, settled_on=$2 WHERE id=$3 RETURNING `+withdrawalColumns,
			domain.WithdrawalStatusFailed, now, id))
		if err != nil {
			return nil, nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, nil, mapErr(err)
		}
		return req, nil, fmt.Errorf("balance %s short of %s: %w", balance, req.Amount, domain.ErrInsufficientFunds)
	}

	txn := &domain.Transaction{
		Reference:   uuid.New().String(),
		WalletID:    walletID,
		Amount:      req.Amount,
		Direction:   domain.DirectionDebit,
		Category:    domain.CategoryWithdrawal,
		Status:      domain.TransactionStatusCompleted,
		Description: fmt.Sprintf("withdrawal %s", req.Reference),
		CreatedOn:   now,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO transactions (reference, wallet_id, amount, direction, category, status, description, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		txn.Reference, txn.WalletID, txn.Amount, txn.Direction, txn.Category, txn.Status, txn.Description, now).
		Scan(&txn.ID)
	if err != nil {
		return nil, nil, mapErr(err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance - $1, updated_on = $2 WHERE id = $3`,
		req.Amount, now, walletID)
	if err != nil {
		return nil, nil, mapErr(err)
	}

	req, err = scanWithdrawal(tx.QueryRowContext(ctx,
		`UPDATE withdrawal_requests SET status=$1, transaction_id=$2, settled_on=$3 WHERE id=$4 RETURNING `+withdrawalColumns,
		domain.WithdrawalStatusCompleted, txn.ID, now, id))
	if err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, mapErr(err)
	}
	return req, txn, nil
}

func (r *withdrawalRepository) getTransactionTx(ctx context.Context, tx *sql.Tx, id int32) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, reference, wallet_id, amount, direction, category, status, COALESCE(description, ''), created_on
		 FROM transactions WHERE id = $1`, id).
		Scan(&t.ID, &t.Reference, &t.WalletID, &t.Amount, &t.Direction, &t.Category,
			&t.Status, &t.Description, &t.CreatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r *withdrawalRepository) ListByMember(ctx context.Context, memberID int32, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
	          WHERE member_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	countQuery := `SELECT COUNT(*) FROM withdrawal_requests WHERE member_id = $1`

	offset := (page - 1) * pageSize
	reqs, err := r.list(ctx, query, memberID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, memberID).Scan(&count); err != nil {
		return nil, 0, mapErr(err)
	}
	return reqs, count, nil
}

func (r *withdrawalRepository) ListPending(ctx context.Context, page, pageSize int32) ([]domain.WithdrawalRequest, int32, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawal_requests
	          WHERE status = 'pending' ORDER BY created_on ASC, id ASC LIMIT $1 OFFSET $2`
	countQuery := `SELECT COUNT(*) FROM withdrawal_requests WHERE status = 'pending'`

	offset := (page - 1) * pageSize
	reqs, err := r.list(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, mapErr(err)
	}
	return reqs, count, nil
}

func (r *withdrawalRepository) list(ctx context.Context, query string, args ...any) ([]domain.WithdrawalRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var reqs []domain.WithdrawalRequest
	for rows.Next() {
		req, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *withdrawalRepository) RejectStale(ctx context.Context, olderThanDays int32, note string) ([]domain.WithdrawalRequest, error) {
	query := `UPDATE withdrawal_requests
	          SET status='rejected', note=$1, decided_on=NOW()
	          WHERE status='pending' AND created_on < NOW() - ($2 * INTERVAL '1 day')
	          RETURNING ` + withdrawalColumns
	rows, err := r.db.QueryContext(ctx, query, note, olderThanDays)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var reqs []domain.WithdrawalRequest
	for rows.Next() {
		req, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}
