package domain

import "time"

// CompanyProfile is the customer organisation owned by a company user.
type CompanyProfile struct {
	ID          string
	UserID      string
	CompanyName string
	CreatedAt   time.Time
}

// ExpertProfile is a technician who works tickets.
type ExpertProfile struct {
	ID         string
	UserID     string
	FullName   string
	IsApproved bool
	CreatedAt  time.Time
}

// CompanyExpertLink links a company to an expert. At most one link per
// company is primary.
type CompanyExpertLink struct {
	ID        string
	CompanyID string
	ExpertID  string
	IsPrimary bool
}

// Asset is a piece of company equipment, optionally owned by a known expert.
type Asset struct {
	ID              string
	CompanyID       string
	PrimaryExpertID *string
	Name            string
}
