package auth

import (
	"strings"

	"github.com/pardismasoud-hue/pishgam/internal/domain"
	apperrors "github.com/pardismasoud-hue/pishgam/pkg/errorutil"
)

// Acting-as headers an admin may send to take a company's or expert's perspective.
const (
	HeaderActAsCompany = "X-Act-As-CompanyUserId"
	HeaderActAsExpert  = "X-Act-As-ExpertUserId"
)

// Actor is the effective identity handed to the ticket engine.
type Actor struct {
	Role   domain.Role
	UserID string
}

// ResolveActor turns the token principal into the identity a route group
// serving role operates as. Only admins may substitute an identity, and only
// through the header matching the group. Non-admins' headers are ignored.
func ResolveActor(p Principal, as domain.Role, header func(string) string) (Actor, error) {
	if p.Role == as {
		return Actor{Role: p.Role, UserID: p.UserID}, nil
	}
	if p.Role != domain.RoleAdmin {
		return Actor{}, apperrors.NewForbidden("insufficient role")
	}

	var name string
	switch as {
	case domain.RoleCompany:
		name = HeaderActAsCompany
	case domain.RoleExpert:
		name = HeaderActAsExpert
	default:
		return Actor{}, apperrors.NewForbidden("insufficient role")
	}

	target := strings.TrimSpace(header(name))
	if target == "" {
		return Actor{}, apperrors.NewForbidden(name + " header required")
	}
	return Actor{Role: as, UserID: target}, nil
}
