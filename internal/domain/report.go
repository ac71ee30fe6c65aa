package domain

import "github.com/shopspring/decimal"

// DownlineEntry is one direct downline member inside a performance report,
// carrying the recruit counts that determine its rank.
type DownlineEntry struct {
	MemberID          int32           `json:"member_id"`
	Name              string          `json:"name"`
	Role              Role            `json:"role"`
	Active            bool            `json:"active"`
	ActiveVendors     int32           `json:"active_vendors"`
	InactiveVendors   int32           `json:"inactive_vendors"`
	ActiveCustomers   int32           `json:"active_customers"`
	InactiveCustomers int32           `json:"inactive_customers"`
	PeriodEarnings    decimal.Decimal `json:"period_earnings"`
}

// Score ranks entries on a leaderboard: active vendors plus active
// customers. Ties break by ascending member id so repeated reports over
// unchanged data order identically.
func (e *DownlineEntry) Score() int32 {
	return e.ActiveVendors + e.ActiveCustomers
}

// PerformanceReport summarizes a leader's downline for one period. It is a
// read-only view: the hierarchy and wallets may change between invocations.
type PerformanceReport struct {
	LeaderID          int32                                   `json:"leader_id"`
	Period            string                                  `json:"period"` // YYYY-MM
	ActiveAgents      int32                                   `json:"active_agents"`
	InactiveAgents    int32                                   `json:"inactive_agents"`
	ActiveVendors     int32                                   `json:"active_vendors"`
	InactiveVendors   int32                                   `json:"inactive_vendors"`
	ActiveCustomers   int32                                   `json:"active_customers"`
	InactiveCustomers int32                                   `json:"inactive_customers"`
	WalletTotal       decimal.Decimal                         `json:"wallet_total"`
	CategoryTotals    map[TransactionCategory]decimal.Decimal `json:"category_totals"`
	Ranked            []DownlineEntry                         `json:"ranked"`
}
