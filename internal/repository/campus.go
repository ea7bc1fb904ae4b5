package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hdelarosa/expediente-engine/internal/common"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// CampusRepository resolves campus ids to their location for the
// issuing-place check.
type CampusRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Campus, error)
}

type campusRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCampusRepository(pool *pgxpool.Pool, logger *slog.Logger) CampusRepository {
	return &campusRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *campusRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Campus, error) {
	var c entity.Campus
	err := r.pool.QueryRow(ctx, `
		SELECT id, nombre, ciudad, estado, COALESCE(direccion, '')
		FROM campus
		WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.City, &c.State, &c.Address)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
