package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type reportService struct {
	memberRepo repository.MemberRepository
	walletRepo repository.WalletRepository
}

func NewReportService(memberRepo repository.MemberRepository, walletRepo repository.WalletRepository) ReportService {
	return &reportService{memberRepo: memberRepo, walletRepo: walletRepo}
}

func (s *reportService) BuildPerformanceReport(ctx context.Context, leaderID int32, period string) (*domain.PerformanceReport, error) {
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	} else if _, err := time.Parse("2006-01", period); err != nil {
		return nil, fmt.Errorf("period %q is not YYYY-MM: %w", period, domain.ErrInvalidAmount)
	}

	leader, err := s.memberRepo.GetByID(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("leader %d: %w", leaderID, err)
	}
	if !leader.Role.Leader() {
		return nil, fmt.Errorf("member %d holds role %s: %w", leaderID, leader.Role, domain.ErrInvalidState)
	}

	downline, err := s.memberRepo.ListDownline(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	if len(downline) == 0 {
		return nil, fmt.Errorf("leader %d has no downline: %w", leaderID, domain.ErrNotFound)
	}

	report := &domain.PerformanceReport{
		LeaderID:       leaderID,
		Period:         period,
		CategoryTotals: map[domain.TransactionCategory]decimal.Decimal{},
		WalletTotal:    decimal.Zero,
	}

	memberIDs := make([]int32, 0, len(downline))
	for i := range downline {
		m := &downline[i]
		memberIDs = append(memberIDs, m.ID)
		switch m.Role {
		case domain.RoleAgent:
			if m.Active {
				report.ActiveAgents++
			} else {
				report.InactiveAgents++
			}
		case domain.RoleVendor:
			if m.Active {
				report.ActiveVendors++
			} else {
				report.InactiveVendors++
			}
		case domain.RoleCustomer:
			if m.Active {
				report.ActiveCustomers++
			} else {
				report.InactiveCustomers++
			}
		}
	}

	categoryTotals, memberTotals, err := s.walletRepo.PeriodCreditTotals(ctx, memberIDs, period)
	if err != nil {
		return nil, err
	}
	report.CategoryTotals = categoryTotals

	total, err := s.walletRepo.SumBalances(ctx, memberIDs)
	if err != nil {
		return nil, err
	}
	report.WalletTotal = total

	recruits, err := s.memberRepo.CountRecruits(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	// Leaderboard covers the agents and managers who recruit, not the
	// vendors and customers they bring in.
	for i := range downline {
		m := &downline[i]
		if m.Role == domain.RoleVendor || m.Role == domain.RoleCustomer {
			continue
		}
		entry := domain.DownlineEntry{
			MemberID:       m.ID,
			Name:           m.Name,
			Role:           m.Role,
			Active:         m.Active,
			PeriodEarnings: decimal.Zero,
		}
		if counts, ok := recruits[m.ID]; ok {
			entry.ActiveVendors = counts[domain.RoleVendor][0]
			entry.InactiveVendors = counts[domain.RoleVendor][1]
			entry.ActiveCustomers = counts[domain.RoleCustomer][0]
			entry.InactiveCustomers = counts[domain.RoleCustomer][1]
		}
		if earned, ok := memberTotals[m.ID]; ok {
			entry.PeriodEarnings = earned
		}
		report.Ranked = append(report.Ranked, entry)
	}

	sort.SliceStable(report.Ranked, func(i, j int) bool {
		a, b := &report.Ranked[i], &report.Ranked[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		return a.MemberID < b.MemberID
	})

	return report, nil
}
