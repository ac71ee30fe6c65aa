package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository/postgres"
)

var withdrawalCols = []string{
	"id", "reference", "member_id", "amount", "status",
	"transaction_id", "decided_by", "note", "created_on", "decided_on", "settled_on",
}

func TestWithdrawalRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWithdrawalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO withdrawal_requests").
			WithArgs(sqlmock.AnyArg(), int32(7), decimal.NewFromInt(2000),
				domain.WithdrawalStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		req := &domain.WithdrawalRequest{MemberID: 7, Amount: decimal.NewFromInt(2000)}
		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, int32(11), req.ID)
		assert.NotEmpty(t, req.Reference)
		assert.Equal(t, domain.WithdrawalStatusPending, req.Status)
	})

	t.Run("CallerReferenceUsedInInsert", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO withdrawal_requests").
			WithArgs("wd-retry-55", int32(7), decimal.NewFromInt(2000),
				domain.WithdrawalStatusPending, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

		req := &domain.WithdrawalRequest{MemberID: 7, Amount: decimal.NewFromInt(2000), Reference: "wd-retry-55"}
		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, "wd-retry-55", req.Reference)
		assert.Equal(t, int32(12), req.ID)
	})

	t.Run("RetrySameReferenceReturnsExistingRequest", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("INSERT INTO withdrawal_requests").
			WithArgs("wd-retry-55", int32(7), decimal.NewFromInt(2000),
				domain.WithdrawalStatusPending, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "withdrawal_requests_reference_key"})
		mock.ExpectQuery("SELECT .+ FROM withdrawal_requests WHERE reference").
			WithArgs("wd-retry-55").
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(12, "wd-retry-55", 7, "2000.00", "pending", nil, nil, "", now, nil, nil))

		req := &domain.WithdrawalRequest{MemberID: 7, Amount: decimal.NewFromInt(2000), Reference: "wd-retry-55"}
		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, int32(12), req.ID)
		assert.Equal(t, "wd-retry-55", req.Reference)
		assert.Equal(t, domain.WithdrawalStatusPending, req.Status)
	})
}

func TestWithdrawalRepository_Decide(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWithdrawalRepository(db)
	ctx := context.Background()

	t.Run("ApprovePending", func(t *testing.T) {
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
		mock.ExpectQuery("UPDATE withdrawal_requests SET status").
			WithArgs(domain.WithdrawalStatusApproved, int32(1), "ok", sqlmock.AnyArg(), int32(11)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(11, "ref-a", 7, "2000.00", "approved", nil, 1, "ok", now, now, nil))
		mock.ExpectCommit()

		req, err := repo.Decide(ctx, 11, true, 1, "ok")
		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusApproved, req.Status)
		assert.Equal(t, int32(1), *req.DecidedBy)
	})

	t.Run("AlreadyDecided", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("approved"))
		mock.ExpectRollback()

		_, err := repo.Decide(ctx, 11, false, 1, "")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(99)).
			WillReturnError(errNoRows())
		mock.ExpectRollback()

		_, err := repo.Decide(ctx, 99, true, 1, "")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestWithdrawalRepository_Settle(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWithdrawalRepository(db)
	ctx := context.Background()

	t.Run("SufficientFunds", func(t *testing.T) {
		// Balance 500, withdrawal 300: debit lands, request completes.
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(11, "ref-a", 7, "300.00", "approved", nil, 1, "", now, now, nil))
		mock.ExpectQuery("SELECT id, balance FROM wallets WHERE member_id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow(3, "500.00"))
		mock.ExpectQuery("INSERT INTO transactions").
			WithArgs(sqlmock.AnyArg(), int32(3), decimal.RequireFromString("300.00"),
				domain.DirectionDebit, domain.CategoryWithdrawal,
				domain.TransactionStatusCompleted, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
		mock.ExpectExec("UPDATE wallets SET balance = balance").
			WithArgs(decimal.RequireFromString("300.00"), sqlmock.AnyArg(), int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("UPDATE withdrawal_requests SET status").
			WithArgs(domain.WithdrawalStatusCompleted, int32(21), sqlmock.AnyArg(), int32(11)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(11, "ref-a", 7, "300.00", "completed", 21, 1, "", now, now, now))
		mock.ExpectCommit()

		req, txn, err := repo.Settle(ctx, 11)
		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusCompleted, req.Status)
		assert.Equal(t, int32(21), txn.ID)
		assert.Equal(t, domain.DirectionDebit, txn.Direction)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		// Balance 100, withdrawal 300: the request fails terminally and the
		// failed status is committed, not rolled back.
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(12)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(12, "ref-b", 7, "300.00", "approved", nil, 1, "", now, now, nil))
		mock.ExpectQuery("SELECT id, balance FROM wallets WHERE member_id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "balance"}).AddRow(3, "100.00"))
		mock.ExpectQuery("UPDATE withdrawal_requests SET status").
			WithArgs(domain.WithdrawalStatusFailed, sqlmock.AnyArg(), int32(12)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(12, "ref-b", 7, "300.00", "failed", nil, 1, "", now, now, now))
		mock.ExpectCommit()

		req, txn, err := repo.Settle(ctx, 12)
		assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
		assert.Nil(t, txn)
		assert.Equal(t, domain.WithdrawalStatusFailed, req.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReplayCompleted", func(t *testing.T) {
		// Settling an already-completed request re-reads the linked debit
		// and leaves the wallet untouched.
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(11)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(11, "ref-a", 7, "300.00", "completed", 21, 1, "", now, now, now))
		mock.ExpectQuery("SELECT id, reference, wallet_id, amount, direction, category, status").
			WithArgs(int32(21)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "reference", "wallet_id", "amount", "direction", "category", "status", "description", "created_on"}).
				AddRow(21, "txn-ref", 3, "300.00", "debit", "withdrawal", "completed", "", now))
		mock.ExpectRollback()

		req, txn, err := repo.Settle(ctx, 11)
		assert.NoError(t, err)
		assert.Equal(t, domain.WithdrawalStatusCompleted, req.Status)
		assert.Equal(t, int32(21), txn.ID)
	})

	t.Run("NotApproved", func(t *testing.T) {
		now := time.Now()
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT (.+) FROM withdrawal_requests WHERE id = .+ FOR UPDATE").
			WithArgs(int32(14)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(14, "ref-c", 7, "300.00", "pending", nil, nil, "", now, nil, nil))
		mock.ExpectRollback()

		_, _, err := repo.Settle(ctx, 14)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestWithdrawalRepository_RejectStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewWithdrawalRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("UPDATE withdrawal_requests").
			WithArgs("expired", int32(14)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols).
				AddRow(8, "ref-x", 5, "1500.00", "rejected", nil, nil, "expired", now.AddDate(0, 0, -20), now, nil).
				AddRow(9, "ref-y", 6, "2500.00", "rejected", nil, nil, "expired", now.AddDate(0, 0, -15), now, nil))

		reqs, err := repo.RejectStale(ctx, 14, "expired")
		assert.NoError(t, err)
		assert.Len(t, reqs, 2)
		assert.Equal(t, domain.WithdrawalStatusRejected, reqs[0].Status)
	})

	t.Run("NoneStale", func(t *testing.T) {
		mock.ExpectQuery("UPDATE withdrawal_requests").
			WithArgs("expired", int32(14)).
			WillReturnRows(sqlmock.NewRows(withdrawalCols))

		reqs, err := repo.RejectStale(ctx, 14, "expired")
		assert.NoError(t, err)
		assert.Empty(t, reqs)
	})
}
