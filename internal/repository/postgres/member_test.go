package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository/postgres"
)

var memberCols = []string{
	"id", "name", "email", "phone", "role", "team_id", "upline_id",
	"active", "pin_hash", "created_on", "updated_on",
}

func TestMemberRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemberRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO members").
			WithArgs("Ada", "ada@x.com", "0800", domain.RoleAgent, nil, nil, true, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		m := &domain.Member{Name: "Ada", Email: "ada@x.com", Phone: "0800", Role: domain.RoleAgent, Active: true}
		err := repo.Create(ctx, m)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), m.ID)
	})

	// Two racing creates with the same email: the loser's unique violation
	// surfaces as a conflict, not an untyped error.
	t.Run("DuplicateEmailIsConflict", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO members").
			WithArgs("Ada", "ada@x.com", "0800", domain.RoleAgent, nil, nil, true, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "members_email_key"})

		m := &domain.Member{Name: "Ada", Email: "ada@x.com", Phone: "0800", Role: domain.RoleAgent, Active: true}
		err := repo.Create(ctx, m)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestMemberRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemberRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM members WHERE LOWER\\(email\\)").
			WithArgs("ada@x.com").
			WillReturnRows(sqlmock.NewRows(memberCols).
				AddRow(7, "Ada", "ada@x.com", "0800", "agent", 5, nil, true, "", now, now))

		m, err := repo.GetByEmail(ctx, "ada@x.com")
		assert.NoError(t, err)
		assert.Equal(t, int32(7), m.ID)
		assert.Equal(t, domain.RoleAgent, m.Role)
		assert.Equal(t, int32(5), *m.TeamID)
		assert.Nil(t, m.UplineID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM members WHERE LOWER\\(email\\)").
			WithArgs("missing@x.com").
			WillReturnError(errNoRows())

		_, err := repo.GetByEmail(ctx, "missing@x.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestMemberRepository_AssignTeam(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemberRepository(db)
	ctx := context.Background()

	t.Run("Unassigned", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT team_id FROM members WHERE id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(nil))
		mock.ExpectExec("UPDATE members SET team_id").
			WithArgs(int32(5), domain.RoleAgent, nil, sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AssignTeam(ctx, 7, 5, domain.RoleAgent, nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AttachedElsewhere", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT team_id FROM members WHERE id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(9))
		mock.ExpectRollback()

		err := repo.AssignTeam(ctx, 7, 5, domain.RoleAgent, nil)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("ReassignSameTeamIsIdempotent", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT team_id FROM members WHERE id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(5))
		mock.ExpectExec("UPDATE members SET team_id").
			WithArgs(int32(5), domain.RoleAgent, nil, sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.AssignTeam(ctx, 7, 5, domain.RoleAgent, nil)
		assert.NoError(t, err)
	})
}

func TestMemberRepository_ReassignTeam(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemberRepository(db)
	ctx := context.Background()

	t.Run("MoveClearsOldLead", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT team_id FROM members WHERE id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(5))
		mock.ExpectExec("UPDATE teams SET lead_id = NULL").
			WithArgs(int32(5), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE members SET team_id").
			WithArgs(int32(6), sqlmock.AnyArg(), int32(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.ReassignTeam(ctx, 7, 6)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unassigned", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT team_id FROM members WHERE id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(nil))
		mock.ExpectRollback()

		err := repo.ReassignTeam(ctx, 7, 6)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("SameTeam", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT team_id FROM members WHERE id = .+ FOR UPDATE").
			WithArgs(int32(7)).
			WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(6))
		mock.ExpectRollback()

		err := repo.ReassignTeam(ctx, 7, 6)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestMemberRepository_ListDownline(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemberRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("WITH RECURSIVE downline").
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows(memberCols).
				AddRow(2, "Agent A", "a@x.com", "", "agent", 5, 1, true, "", now, now).
				AddRow(3, "Vendor 1", "v1@x.com", "", "vendor", 5, 2, true, "", now, now).
				AddRow(4, "Vendor 2", "v2@x.com", "", "vendor", 5, 2, false, "", now, now))

		members, err := repo.ListDownline(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, members, 3)
		assert.Equal(t, domain.RoleVendor, members[1].Role)
	})

	t.Run("Empty", func(t *testing.T) {
		mock.ExpectQuery("WITH RECURSIVE downline").
			WithArgs(int32(8)).
			WillReturnRows(sqlmock.NewRows(memberCols))

		members, err := repo.ListDownline(ctx, 8)
		assert.NoError(t, err)
		assert.Empty(t, members)
	})
}

func TestMemberRepository_CountRecruits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewMemberRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT upline_id, role, active, COUNT\\(\\*\\)").
			WithArgs(sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"upline_id", "role", "active", "count"}).
				AddRow(2, "vendor", true, 2).
				AddRow(2, "vendor", false, 1).
				AddRow(2, "customer", true, 3))

		counts, err := repo.CountRecruits(ctx, []int32{2})
		assert.NoError(t, err)
		assert.Equal(t, [2]int32{2, 1}, counts[2][domain.RoleVendor])
		assert.Equal(t, [2]int32{3, 0}, counts[2][domain.RoleCustomer])
	})
}
