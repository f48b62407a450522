package repository

import (
	"context"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// CatalogRepository reads the service catalog.
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, id string) (*domain.ServiceCatalogItem, error)
}

type catalogRepository struct {
	db DBTX
}

// NewCatalogRepository builds repository.
func NewCatalogRepository(db DBTX) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetServiceByID(ctx context.Context, id string) (*domain.ServiceCatalogItem, error) {
	const query = `
        SELECT id, name, default_first_response_minutes, default_resolution_minutes, is_active, created_at
        FROM live_service_catalog_items WHERE id=$1`
	var item domain.ServiceCatalogItem
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.DefaultFirstResponseMinutes,
		&item.DefaultResolutionMinutes,
		&item.IsActive,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
