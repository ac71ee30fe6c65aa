package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusApproved  WithdrawalStatus = "approved"
	WithdrawalStatusRejected  WithdrawalStatus = "rejected"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
	WithdrawalStatusFailed    WithdrawalStatus = "failed"
)

// Terminal reports whether no further transition is allowed from s.
func (s WithdrawalStatus) Terminal() bool {
	switch s {
	case WithdrawalStatusRejected, WithdrawalStatusCompleted, WithdrawalStatusFailed:
		return true
	}
	return false
}

// WithdrawalRequest is a proposed debit awaiting authorization and PIN-gated
// settlement. No funds are reserved at creation: the balance is only checked
// when the request settles, so concurrent approved requests can contend for
// the same funds and only the first settlement succeeds.
type WithdrawalRequest struct {
	ID            int32            `json:"id"`
	Reference     string           `json:"reference"`
	MemberID      int32            `json:"member_id"`
	Amount        decimal.Decimal  `json:"amount"`
	Status        WithdrawalStatus `json:"status"`
	TransactionID *int32           `json:"transaction_id,omitempty"`
	DecidedBy     *int32           `json:"decided_by,omitempty"`
	Note          string           `json:"note,omitempty"`
	CreatedOn     time.Time        `json:"created_on"`
	DecidedOn     *time.Time       `json:"decided_on,omitempty"`
	SettledOn     *time.Time       `json:"settled_on,omitempty"`
}
