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

// CatalogRepository reads administrator-defined required document types.
// The engine never writes the catalog.
type CatalogRepository interface {
	ListActive(ctx context.Context) ([]entity.CatalogEntry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CatalogEntry, error)
}

type catalogRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCatalogRepository(pool *pgxpool.Pool, logger *slog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *catalogRepository) ListActive(ctx context.Context) ([]entity.CatalogEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nombre, descripcion, entidad_emisora, nivel_emision, activo
		FROM documentos_catalogo
		WHERE activo = true
		ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []entity.CatalogEntry
	for rows.Next() {
		var e entity.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.IssuingEntity, &e.Level, &e.Active); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *catalogRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CatalogEntry, error) {
	var e entity.CatalogEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, nombre, descripcion, entidad_emisora, nivel_emision, activo
		FROM documentos_catalogo
		WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Description, &e.IssuingEntity, &e.Level, &e.Active)
	if err == pgx.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
