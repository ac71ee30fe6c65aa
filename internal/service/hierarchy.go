package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/logger"
	"fieldforce-backend/internal/repository"
)

type hierarchyService struct {
	zoneRepo   repository.ZoneRepository
	teamRepo   repository.TeamRepository
	memberRepo repository.MemberRepository
	walletRepo repository.WalletRepository
	noteRepo   repository.NotificationRepository
	emailSvc   EmailService
	commitWait time.Duration
}

func NewHierarchyService(
	zoneRepo repository.ZoneRepository,
	teamRepo repository.TeamRepository,
	memberRepo repository.MemberRepository,
	walletRepo repository.WalletRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	commitWait time.Duration,
) HierarchyService {
	return &hierarchyService{
		zoneRepo:   zoneRepo,
		teamRepo:   teamRepo,
		memberRepo: memberRepo,
		walletRepo: walletRepo,
		noteRepo:   noteRepo,
		emailSvc:   emailSvc,
		commitWait: commitWait,
	}
}

func (s *hierarchyService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.commitWait)
}

func (s *hierarchyService) CreateZone(ctx context.Context, name, code string) (*domain.Zone, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if existing, err := s.zoneRepo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, fmt.Errorf("zone code %s already in use: %w", code, domain.ErrConflict)
	}

	zone := &domain.Zone{Name: name, Code: code}
	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.zoneRepo.Create(wctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *hierarchyService) GetZone(ctx context.Context, zoneID int32) (*domain.Zone, error) {
	return s.zoneRepo.GetByID(ctx, zoneID)
}

func (s *hierarchyService) ListZones(ctx context.Context) ([]domain.Zone, error) {
	return s.zoneRepo.List(ctx)
}

func (s *hierarchyService) CreateTeam(ctx context.Context, zoneID int32, name, state string) (*domain.Team, error) {
	if _, err := s.zoneRepo.GetByID(ctx, zoneID); err != nil {
		return nil, fmt.Errorf("zone %d: %w", zoneID, err)
	}

	team := &domain.Team{ZoneID: zoneID, Name: name, State: state}
	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.teamRepo.Create(wctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *hierarchyService) GetTeam(ctx context.Context, teamID int32) (*domain.Team, error) {
	return s.teamRepo.GetByID(ctx, teamID)
}

func (s *hierarchyService) ListZoneTeams(ctx context.Context, zoneID int32) ([]domain.Team, error) {
	if _, err := s.zoneRepo.GetByID(ctx, zoneID); err != nil {
		return nil, fmt.Errorf("zone %d: %w", zoneID, err)
	}
	return s.teamRepo.ListByZone(ctx, zoneID)
}

func (s *hierarchyService) CreateMember(ctx context.Context, name, email, phone string, role domain.Role) (*domain.Member, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	if existing, err := s.memberRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %s already registered: %w", email, domain.ErrConflict)
	}

	m := &domain.Member{Name: name, Email: email, Phone: phone, Role: role, Active: true}
	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.memberRepo.Create(wctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *hierarchyService) AssignMember(ctx context.Context, email string, role domain.Role, teamID int32, uplineEmail string) (*domain.Member, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}

	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", email, err)
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("team %d: %w", teamID, err)
	}

	var uplineID *int32
	if uplineEmail != "" {
		upline, err := s.memberRepo.GetByEmail(ctx, uplineEmail)
		if err != nil {
			return nil, fmt.Errorf("upline %s: %w", uplineEmail, err)
		}
		uplineID = &upline.ID
	}

	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	// Wallet first: CreateForMember is idempotent, and the two writes commit
	// separately, so this order guarantees an attached member always has a
	// wallet even if the assignment itself fails midway.
	if _, err := s.walletRepo.CreateForMember(wctx, member.ID, domain.DefaultCurrency); err != nil {
		return nil, fmt.Errorf("wallet for member %d: %w", member.ID, err)
	}
	if err := s.memberRepo.AssignTeam(wctx, member.ID, teamID, role, uplineID); err != nil {
		return nil, err
	}

	updated, err := s.memberRepo.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	s.notifyAssignment(ctx, updated, team)
	return updated, nil
}

func (s *hierarchyService) ReassignMember(ctx context.Context, email string, newTeamID int32) (*domain.Member, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", email, err)
	}
	team, err := s.teamRepo.GetByID(ctx, newTeamID)
	if err != nil {
		return nil, fmt.Errorf("team %d: %w", newTeamID, err)
	}

	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.memberRepo.ReassignTeam(wctx, member.ID, newTeamID); err != nil {
		return nil, err
	}

	updated, err := s.memberRepo.GetByID(ctx, member.ID)
	if err != nil {
		return nil, err
	}

	s.notifyAssignment(ctx, updated, team)
	return updated, nil
}

func (s *hierarchyService) SetTeamLead(ctx context.Context, email string, teamID int32) (*domain.Team, error) {
	member, err := s.memberRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", email, err)
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("team %d: %w", teamID, err)
	}

	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.teamRepo.SetLead(wctx, teamID, member.ID); err != nil {
		return nil, err
	}
	return s.teamRepo.GetByID(ctx, teamID)
}

func (s *hierarchyService) SetMemberActive(ctx context.Context, memberID int32, active bool) (*domain.Member, error) {
	wctx, cancel := s.withDeadline(ctx)
	defer cancel()
	if err := s.memberRepo.SetActive(wctx, memberID, active); err != nil {
		return nil, err
	}
	return s.memberRepo.GetByID(ctx, memberID)
}

func (s *hierarchyService) ListTeamMembers(ctx context.Context, teamID int32) ([]domain.Member, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("team %d: %w", teamID, err)
	}
	return s.memberRepo.ListByTeam(ctx, teamID)
}

func (s *hierarchyService) TeamSummary(ctx context.Context, teamID int32) (*domain.TeamSummary, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, fmt.Errorf("team %d: %w", teamID, err)
	}
	return s.teamRepo.Summary(ctx, teamID)
}

// notifyAssignment is a best-effort side channel; failures are logged and
// never fail the mutation.
func (s *hierarchyService) notifyAssignment(ctx context.Context, member *domain.Member, team *domain.Team) {
	if err := s.emailSvc.SendAssignmentNotification(ctx, member.Email, member.Name, team.Name); err != nil {
		logger.Warn("assignment email failed", "member_id", member.ID, "error", err)
	}

	note := &domain.Notification{
		MemberID: member.ID,
		Title:    "Team Assignment",
		Message:  fmt.Sprintf("You are now part of team %s", team.Name),
		Attributes: map[string]string{
			"type":    "TEAM_ASSIGNMENT",
			"team_id": fmt.Sprintf("%d", team.ID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("assignment notification failed", "member_id", member.ID, "error", err)
	}
}
