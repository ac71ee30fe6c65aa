package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type teamRepository struct {
	db *sql.DB
}

func NewTeamRepository(db *sql.DB) repository.TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, t *domain.Team) error {
	query := `INSERT INTO teams (zone_id, name, state, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	t.CreatedOn = time.Now().UTC()
	return mapErr(r.db.QueryRowContext(ctx, query, t.ZoneID, t.Name, t.State, t.CreatedOn).Scan(&t.ID))
}

func (r *teamRepository) GetByID(ctx context.Context, id int32) (*domain.Team, error) {
	t := &domain.Team{}
	query := `SELECT id, zone_id, name, state, lead_id, created_on FROM teams WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.ZoneID, &t.Name, &t.State, &t.LeadID, &t.CreatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return t, nil
}

func (r *teamRepository) ListByZone(ctx context.Context, zoneID int32) ([]domain.Team, error) {
	query := `SELECT id, zone_id, name, state, lead_id, created_on FROM teams WHERE zone_id = $1 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.ZoneID, &t.Name, &t.State, &t.LeadID, &t.CreatedOn); err != nil {
			return nil, mapErr(err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// SetLead verifies membership and repoints the lead inside one transaction.
// The previous lead, if any, is demoted by the same UPDATE.
func (r *teamRepository) SetLead(ctx context.Context, teamID, memberID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	var currentTeam sql.NullInt32
	err = tx.QueryRowContext(ctx,
		`SELECT team_id FROM members WHERE id = $1 FOR UPDATE`, memberID).Scan(&currentTeam)
	if err != nil {
		return mapErr(err)
	}
	if !currentTeam.Valid || currentTeam.Int32 != teamID {
		return fmt.Errorf("member %d does not belong to team %d: %w", memberID, teamID, domain.ErrInvalidState)
	}

	res, err := tx.ExecContext(ctx, `UPDATE teams SET lead_id = $1 WHERE id = $2`, memberID, teamID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return mapErr(tx.Commit())
}

func (r *teamRepository) Summary(ctx context.Context, teamID int32) (*domain.TeamSummary, error) {
	s := &domain.TeamSummary{TeamID: teamID, RoleCounts: make(map[domain.Role]int32)}

	query := `SELECT role, active, COUNT(*) FROM members WHERE team_id = $1 GROUP BY role, active`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var role domain.Role
		var active bool
		var count int32
		if err := rows.Scan(&role, &active, &count); err != nil {
			return nil, mapErr(err)
		}
		s.RoleCounts[role] += count
		s.TotalMembers += count
		if active {
			s.ActiveCount += count
		}
	}
	return s, rows.Err()
}
