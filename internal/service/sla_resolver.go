package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pardismasoud-hue/pishgam/internal/config"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
	"github.com/pardismasoud-hue/pishgam/internal/repository"
)

// SLAMinutes is the pair of targets snapshotted onto a ticket at creation.
type SLAMinutes struct {
	FirstResponse int
	Resolution    int
}

// DueDates derives both deadlines from the creation instant.
func (m SLAMinutes) DueDates(createdAt time.Time) (firstResponseDue, resolutionDue time.Time) {
	return createdAt.Add(time.Duration(m.FirstResponse) * time.Minute),
		createdAt.Add(time.Duration(m.Resolution) * time.Minute)
}

// ResolveSLA layers system defaults, the service defaults and the active
// contract's override for that service. Each override value replaces only its
// own target; a nil custom value keeps the service default.
func ResolveSLA(ctx context.Context, repos repository.Repositories, defaults config.SLAConfig, companyID string, service *domain.ServiceCatalogItem) (SLAMinutes, error) {
	sla := SLAMinutes{FirstResponse: defaults.FirstResponseMinutes, Resolution: defaults.ResolutionMinutes}
	if service == nil || !service.IsActive {
		return sla, nil
	}
	sla = SLAMinutes{FirstResponse: service.DefaultFirstResponseMinutes, Resolution: service.DefaultResolutionMinutes}

	contract, err := repos.Contracts.GetActiveForCompany(ctx, companyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return sla, nil
	}
	if err != nil {
		return SLAMinutes{}, err
	}

	override, err := repos.Contracts.GetServiceOverride(ctx, contract.ID, service.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return sla, nil
	}
	if err != nil {
		return SLAMinutes{}, err
	}
	if override.CustomFirstResponseMinutes != nil {
		sla.FirstResponse = *override.CustomFirstResponseMinutes
	}
	if override.CustomResolutionMinutes != nil {
		sla.Resolution = *override.CustomResolutionMinutes
	}
	return sla, nil
}
