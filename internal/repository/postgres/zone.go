package postgres

import (
	"context"
	"database/sql"
	"time"

	"fieldforce-backend/internal/domain"
	"fieldforce-backend/internal/repository"
)

type zoneRepository struct {
	db *sql.DB
}

func NewZoneRepository(db *sql.DB) repository.ZoneRepository {
	return &zoneRepository{db: db}
}

func (r *zoneRepository) Create(ctx context.Context, z *domain.Zone) error {
	query := `INSERT INTO zones (name, code, created_on) VALUES ($1, $2, $3) RETURNING id`
	z.CreatedOn = time.Now().UTC()
	return mapErr(r.db.QueryRowContext(ctx, query, z.Name, z.Code, z.CreatedOn).Scan(&z.ID))
}

func (r *zoneRepository) GetByID(ctx context.Context, id int32) (*domain.Zone, error) {
	z := &domain.Zone{}
	query := `SELECT id, name, code, created_on FROM zones WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&z.ID, &z.Name, &z.Code, &z.CreatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return z, nil
}

func (r *zoneRepository) GetByCode(ctx context.Context, code string) (*domain.Zone, error) {
	z := &domain.Zone{}
	query := `SELECT id, name, code, created_on FROM zones WHERE UPPER(code) = UPPER($1)`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&z.ID, &z.Name, &z.Code, &z.CreatedOn)
	if err != nil {
		return nil, mapErr(err)
	}
	return z, nil
}

func (r *zoneRepository) List(ctx context.Context) ([]domain.Zone, error) {
	query := `SELECT id, name, code, created_on FROM zones ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		var z domain.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Code, &z.CreatedOn); err != nil {
			return nil, mapErr(err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
