package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) repository.MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, name, email, phone, role, team_id, upline_id, active, COALESCE(pin_hash, ''), created_on, updated_on`

func scanMember(row interface{ Scan(...any) error }) (*domain.Member, error) {
	m := &domain.Member{}
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Role, &m.TeamID, &m.UplineID,
		&m.Active, &m.PinHash, &m.CreatedOn, &m.UpdatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return m, nil
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `INSERT INTO members (name, email, phone, role, team_id, upline_id, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8) RETURNING id`
	now := time.Now().UTC()
	m.CreatedOn = now
	m.UpdatedOn = now
	return mapErr(r.db.QueryRowContext(ctx, query,
		m.Name, m.Email, m.Phone, m.Role, m.TeamID, m.UplineID, m.Active, now).Scan(&m.ID))
}

func (r *memberRepository) GetByID(ctx context.Context, id int32) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	return scanMember(r.db.QueryRowContext(ctx, query, id))
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE LOWER(email) = LOWER($1)`
	return scanMember(r.db.QueryRowContext(ctx, query, email))
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `UPDATE members SET name=$1, email=$2, phone=$3, role=$4, updated_on=$5 WHERE id=$6`
	m.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Email, m.Phone, m.Role, m.UpdatedOn, m.ID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AssignTeam attaches a member to a team. The member row lock serializes
// concurrent assignment of the same member; a member already attached to a
// different team is a conflict (moves go through ReassignTeam).
func (r *memberRepository) AssignTeam(ctx context.Context, memberID, teamID int32, role domain.Role, uplineID *int32) error {
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
	if currentTeam.Valid && currentTeam.Int32 != teamID {
		return fmt.Errorf("member %d already attached to team %d: %w", memberID, currentTeam.Int32, domain.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE members SET team_id=$1, role=$2, upline_id=COALESCE($3, upline_id), updated_on=$4 WHERE id=$5`,
		teamID, role, uplineID, time.Now().UTC(), memberID)
	if err != nil {
		return mapErr(err)
	}
	return mapErr(tx.Commit())
}

// ReassignTeam moves a member between teams in one atomic step. If the
// member led the old team, the lead designation is cleared in the same
// commit so the lead-must-belong invariant holds.
func (r *memberRepository) ReassignTeam(ctx context.Context, memberID, newTeamID int32) error {
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
	if !currentTeam.Valid {
		return fmt.Errorf("member %d is unassigned: %w", memberID, domain.ErrConflict)
	}
	if currentTeam.Int32 == newTeamID {
		return fmt.Errorf("member %d already on team %d: %w", memberID, newTeamID, domain.ErrConflict)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE teams SET lead_id = NULL WHERE id = $1 AND lead_id = $2`, currentTeam.Int32, memberID)
	if err != nil {
		return mapErr(err)
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE members SET team_id=$1, updated_on=$2 WHERE id=$3`,
		newTeamID, time.Now().UTC(), memberID)
	if err != nil {
		return mapErr(err)
	}
	return mapErr(tx.Commit())
}

func (r *memberRepository) SetActive(ctx context.Context, memberID int32, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET active=$1, updated_on=$2 WHERE id=$3`,
		active, time.Now().UTC(), memberID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memberRepository) SetPinHash(ctx context.Context, memberID int32, pinHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE members SET pin_hash=$1, updated_on=$2 WHERE id=$3`,
		pinHash, time.Now().UTC(), memberID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memberRepository) ListByTeam(ctx context.Context, teamID int32) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE team_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

// ListDownline walks the recruiter edges from the leader, seeded with the
// members of any team the leader heads. UNION deduplicates members reachable
// both ways.
func (r *memberRepository) ListDownline(ctx context.Context, leaderID int32) ([]domain.Member, error) {
	query := `
		WITH RECURSIVE downline AS (
			SELECT m.id, m.name, m.email, m.phone, m.role, m.team_id, m.upline_id, m.active,
			       COALESCE(m.pin_hash, '') AS pin_hash, m.created_on, m.updated_on
			FROM members m
			WHERE m.upline_id = $1
			   OR m.team_id IN (SELECT t.id FROM teams t WHERE t.lead_id = $1)
			UNION
			SELECT m.id, m.name, m.email, m.phone, m.role, m.team_id, m.upline_id, m.active,
			       COALESCE(m.pin_hash, ''), m.created_on, m.updated_on
			FROM members m
			JOIN downline d ON m.upline_id = d.id
		)
		SELECT id, name, email, phone, role, team_id, upline_id, active, pin_hash, created_on, updated_on
		FROM downline WHERE id <> $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, leaderID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectMembers(rows)
}

func (r *memberRepository) CountRecruits(ctx context.Context, memberIDs []int32) (map[int32]map[domain.Role][2]int32, error) {
	query := `SELECT upline_id, role, active, COUNT(*)
	          FROM members WHERE upline_id = ANY($1)
	          GROUP BY upline_id, role, active`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(memberIDs))
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	counts := make(map[int32]map[domain.Role][2]int32)
	for rows.Next() {
		var uplineID int32
		var role domain.Role
		var active bool
		var n int32
		if err := rows.Scan(&uplineID, &role, &active, &n); err != nil {
			return nil, mapErr(err)
		}
		if counts[uplineID] == nil {
			counts[uplineID] = make(map[domain.Role][2]int32)
		}
		pair := counts[uplineID][role]
		if active {
			pair[0] += n
		} else {
			pair[1] += n
		}
		counts[uplineID][role] = pair
	}
	return counts, rows.Err()
}

func collectMembers(rows *sql.Rows) ([]domain.Member, error) {
	var members []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
