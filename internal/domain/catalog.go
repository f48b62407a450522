package domain

import (
	"errors"
	"time"
)

// ErrSLAOrder is returned when resolution minutes undercut first-response minutes.
var ErrSLAOrder = errors.New("resolution minutes must be greater than or equal to first response minutes")

// ServiceCatalogItem is a contracted service with default SLA targets.
type ServiceCatalogItem struct {
	ID                          string
	Name                        string
	DefaultFirstResponseMinutes int
	DefaultResolutionMinutes    int
	IsActive                    bool
	CreatedAt                   time.Time
}

// Validate checks the configuration invariant on default SLA minutes.
func (s ServiceCatalogItem) Validate() error {
	if s.DefaultFirstResponseMinutes <= 0 || s.DefaultResolutionMinutes <= 0 {
		return errors.New("sla minutes must be positive")
	}
	if s.DefaultResolutionMinutes < s.DefaultFirstResponseMinutes {
		return ErrSLAOrder
	}
	return nil
}

// Contract is a company's commercial agreement. At most one is active per company.
type Contract struct {
	ID        string
	CompanyID string
	IsActive  bool
	CreatedAt time.Time
}

// ContractService overrides a service's SLA for one contract. A nil custom
// value falls back to the service default.
type ContractService struct {
	ID                         string
	ContractID                 string
	ServiceID                  string
	CustomFirstResponseMinutes *int
	CustomResolutionMinutes    *int
}

// Validate checks the override against the service it applies to.
func (cs ContractService) Validate(service ServiceCatalogItem) error {
	first := service.DefaultFirstResponseMinutes
	resolution := service.DefaultResolutionMinutes
	if cs.CustomFirstResponseMinutes != nil {
		first = *cs.CustomFirstResponseMinutes
	}
	if cs.CustomResolutionMinutes != nil {
		resolution = *cs.CustomResolutionMinutes
	}
	if first <= 0 || resolution <= 0 {
		return errors.New("sla minutes must be positive")
	}
	if resolution < first {
		return ErrSLAOrder
	}
	return nil
}
