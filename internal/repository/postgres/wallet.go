package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type walletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) CreateForMember(ctx context.Context, memberID int32, currency string) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (member_id, balance, currency, created_on, updated_on)
	          VALUES ($1, 0, $2, $3, $3)
	          ON CONFLICT (member_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, memberID, currency, time.Now().UTC()); err != nil {
		return nil, mapErr(err)
	}
	return r.GetByMemberID(ctx, memberID)
}

func (r *walletRepository) GetByMemberID(ctx context.Context, memberID int32) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	query := `SELECT id, member_id, balance, currency, created_on, updated_on FROM wallets WHERE member_id = $1`
	err := r.db.QueryRowContext(ctx, query, memberID).Scan(
		&w.ID, &w.MemberID, &w.Balance, &w.Currency, &w.CreatedOn, &w.UpdatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return w, nil
}

func (r *walletRepository) Credit(ctx context.Context, memberID int32, txn *domain.Transaction) error {
	return r.post(ctx, memberID, txn, domain.DirectionCredit)
}

func (r *walletRepository) Debit(ctx context.Context, memberID int32, txn *domain.Transaction) error {
	return r.post(ctx, memberID, txn, domain.DirectionDebit)
}

// post appends a completed transaction and moves the balance in one commit.
// The wallet row lock serializes concurrent postings against the same
// wallet, so a debit's balance check can never pass against a stale value.
func (r *walletRepository) post(ctx context.Context, memberID int32, txn *domain.Transaction, dir domain.TransactionDirection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	var walletID int32
	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT id, balance FROM wallets WHERE member_id = $1 FOR UPDATE`, memberID).
		Scan(&walletID, &balance)
	if err != nil {
		return mapErr(err)
	}

	delta := txn.Amount
	if dir == domain.DirectionDebit {
		if balance.LessThan(txn.Amount) {
			return fmt.Errorf("balance %s short of %s: %w", balance, txn.Amount, domain.ErrInsufficientFunds)
		}
		delta = txn.Amount.Neg()
	}

	now := time.Now().UTC()
	txn.WalletID = walletID
	txn.Direction = dir
	txn.Status = domain.TransactionStatusCompleted
	txn.CreatedOn = now
	err = tx.QueryRowContext(ctx,
		`INSERT INTO transactions (reference, wallet_id, amount, direction, category, status, description, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		txn.Reference, walletID, txn.Amount, txn.Direction, txn.Category, txn.Status, txn.Description, now).
		Scan(&txn.ID)
	if err != nil {
		mapped := mapErr(err)
		if errors.Is(mapped, domain.ErrConflict) {
			// A retry carrying the reference of an already-committed
			// posting. Return that entry; the balance moved exactly once.
			tx.Rollback()
			existing, lookupErr := r.getByReference(ctx, txn.Reference)
			if lookupErr != nil {
				return mapped
			}
			*txn = *existing
			return nil
		}
		return mapped
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance + $1, updated_on = $2 WHERE id = $3`,
		delta, now, walletID)
	if err != nil {
		return mapErr(err)
	}
	return mapErr(tx.Commit())
}

func (r *walletRepository) getByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, reference, wallet_id, amount, direction, category, status, COALESCE(description, ''), created_on
		 FROM transactions WHERE reference = $1`, reference).
		Scan(&t.ID, &t.Reference, &t.WalletID, &t.Amount, &t.Direction, &t.Category,
			&t.Status, &t.Description, &t.CreatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID int32, page, pageSize int32) ([]domain.Transaction, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT id, reference, wallet_id, amount, direction, category, status, COALESCE(description, ''), created_on
	          FROM transactions WHERE wallet_id = $1 ORDER BY created_on DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, walletID, pageSize, offset)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.Reference, &t.WalletID, &t.Amount, &t.Direction,
			&t.Category, &t.Status, &t.Description, &t.CreatedOn); err != nil {
			return nil, 0, mapErr(err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}

	var count int32
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE wallet_id = $1`, walletID).Scan(&count)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	return txs, count, nil
}

func (r *walletRepository) TeamRollup(ctx context.Context, teamID int32) (*domain.Rollup, error) {
	return r.rollup(ctx,
		`SELECT COALESCE(SUM(w.balance), 0), COUNT(w.id)
		 FROM wallets w JOIN members m ON m.id = w.member_id
		 WHERE m.team_id = $1`,
		`SELECT t.category,
		        COALESCE(SUM(CASE WHEN t.direction = 'credit' THEN t.amount ELSE -t.amount END), 0)
		 FROM transactions t
		 JOIN wallets w ON w.id = t.wallet_id
		 JOIN members m ON m.id = w.member_id
		 WHERE m.team_id = $1 AND t.status = 'completed'
		 GROUP BY t.category`,
		teamID)
}

func (r *walletRepository) ZoneRollup(ctx context.Context, zoneID int32) (*domain.Rollup, error) {
	return r.rollup(ctx,
		`SELECT COALESCE(SUM(w.balance), 0), COUNT(w.id)
		 FROM wallets w
		 JOIN members m ON m.id = w.member_id
		 JOIN teams tm ON tm.id = m.team_id
		 WHERE tm.zone_id = $1`,
		`SELECT t.category,
		        COALESCE(SUM(CASE WHEN t.direction = 'credit' THEN t.amount ELSE -t.amount END), 0)
		 FROM transactions t
		 JOIN wallets w ON w.id = t.wallet_id
		 JOIN members m ON m.id = w.member_id
		 JOIN teams tm ON tm.id = m.team_id
		 WHERE tm.zone_id = $1 AND t.status = 'completed'
		 GROUP BY t.category`,
		zoneID)
}

// rollup computes the synthetic team/zone wallet view on read. There is no
// stored rollup ledger to drift from the per-member wallets.
func (r *walletRepository) rollup(ctx context.Context, balanceQuery, categoryQuery string, nodeID int32) (*domain.Rollup, error) {
	ru := &domain.Rollup{
		Balance:        decimal.Zero,
		CategoryTotals: make(map[domain.TransactionCategory]decimal.Decimal),
	}
	err := r.db.QueryRowContext(ctx, balanceQuery, nodeID).Scan(&ru.Balance, &ru.WalletCount)
	if err != nil {
		return nil, mapErr(err)
	}

	rows, err := r.db.QueryContext(ctx, categoryQuery, nodeID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat domain.TransactionCategory
		var total decimal.Decimal
		if err := rows.Scan(&cat, &total); err != nil {
			return nil, mapErr(err)
		}
		ru.CategoryTotals[cat] = total
	}
	return ru, rows.Err()
}

func (r *walletRepository) PeriodCreditTotals(ctx context.Context, memberIDs []int32, period string) (map[domain.TransactionCategory]decimal.Decimal, map[int32]decimal.Decimal, error) {
	query := `SELECT t.category, w.member_id, COALESCE(SUM(t.amount), 0)
	          FROM transactions t JOIN wallets w ON w.id = t.wallet_id
	          WHERE w.member_id = ANY($1)
	            AND t.direction = 'credit' AND t.status = 'completed'
	            AND to_char(t.created_on, 'YYYY-MM') = $2
	          GROUP BY t.category, w.member_id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(memberIDs), period)
	if err != nil {
		return nil, nil, mapErr(err)
	}
	defer rows.Close()

	byCategory := make(map[domain.TransactionCategory]decimal.Decimal)
	byMember := make(map[int32]decimal.Decimal)
	for rows.Next() {
		var cat domain.TransactionCategory
		var memberID int32
		var total decimal.Decimal
		if err := rows.Scan(&cat, &memberID, &total); err != nil {
			return nil, nil, mapErr(err)
		}
		byCategory[cat] = byCategory[cat].Add(total)
		byMember[memberID] = byMember[memberID].Add(total)
	}
	return byCategory, byMember, rows.Err()
}

func (r *walletRepository) SumBalances(ctx context.Context, memberIDs []int32) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(balance), 0) FROM wallets WHERE member_id = ANY($1)`,
		pq.Array(memberIDs)).Scan(&total)
	return total, mapErr(err)
}

func (r *walletRepository) TakeBalanceSnapshots(ctx context.Context, month string) (int64, error) {
	query := `INSERT INTO balance_snapshots (member_id, balance, month, snapshot_at)
	          SELECT member_id, balance, $1, NOW()
	          FROM wallets
	          ON CONFLICT (member_id, month) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, month)
	if err != nil {
		return 0, mapErr(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
