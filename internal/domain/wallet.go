package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "NGN"

type TransactionDirection string

const (
	DirectionCredit TransactionDirection = "credit"
	DirectionDebit  TransactionDirection = "debit"
)

type TransactionCategory string

const (
	CategoryCommissionSales        TransactionCategory = "commission-sales"
	CategoryCommissionDelivery     TransactionCategory = "commission-delivery"
	CategoryCommissionSubscription TransactionCategory = "commission-subscription"
	CategoryWithdrawal             TransactionCategory = "withdrawal"
	CategoryPayment                TransactionCategory = "payment"
	CategoryAdjustment             TransactionCategory = "adjustment"
)

func (c TransactionCategory) Valid() bool {
	switch c {
	case CategoryCommissionSales, CategoryCommissionDelivery,
		CategoryCommissionSubscription, CategoryWithdrawal,
		CategoryPayment, CategoryAdjustment:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Wallet is the financial account of a single member. Balance always equals
// the signed sum of its completed transactions and never goes negative.
type Wallet struct {
	ID        int32           `json:"id"`
	MemberID  int32           `json:"member_id"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedOn time.Time       `json:"created_on"`
	UpdatedOn time.Time       `json:"updated_on"`
}

// Transaction is an immutable ledger entry. Once completed it is never
// mutated or deleted; corrections are new offsetting adjustment entries.
// Reference is a caller-visible idempotency key.
type Transaction struct {
	ID          int32                `json:"id"`
	Reference   string               `json:"reference"`
	WalletID    int32                `json:"wallet_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Direction   TransactionDirection `json:"direction"`
	Category    TransactionCategory  `json:"category"`
	Status      TransactionStatus    `json:"status"`
	Description string               `json:"description"`
	CreatedOn   time.Time            `json:"created_on"`
}

// SignedAmount is the amount as it contributes to the balance: credits
// positive, debits negative.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// WalletStatement is a balance plus one page of its transaction history,
// newest first.
type WalletStatement struct {
	Wallet       Wallet        `json:"wallet"`
	Transactions []Transaction `json:"transactions"`
	TotalCount   int32         `json:"total_count"`
}

// Rollup is a computed view summing member wallets under a team or zone.
// Rollups are recomputed on read, never separately mutated, so they cannot
// drift from the per-member ledgers.
type Rollup struct {
	Balance        decimal.Decimal                         `json:"balance"`
	WalletCount    int32                                   `json:"wallet_count"`
	CategoryTotals map[TransactionCategory]decimal.Decimal `json:"category_totals"`
}

// BalanceSnapshot is a monthly audit record of a wallet balance, written by
// the snapshot job.
type BalanceSnapshot struct {
	MemberID   int32           `json:"member_id"`
	Balance    decimal.Decimal `json:"balance"`
	Month      string          `json:"month"` // YYYY-MM
	SnapshotAt time.Time       `json:"snapshot_at"`
}
