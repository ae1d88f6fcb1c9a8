package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/vetpharmacy/inventory-api/internal/core/domain"
	"github.com/vetpharmacy/inventory-api/internal/pkg/metrics"
)

type policyKind int

const (
	policyAnonymous policyKind = iota
	policyAuthenticated
	policyRole
)

// Policy is the access rule attached to a route.
type Policy struct {
	kind policyKind
	role domain.Role
}

var (
	// Anonymous lets every request through.
	Anonymous = Policy{kind: policyAnonymous}
	// AnyAuthenticated requires a verified identity of any role.
	AnyAuthenticated = Policy{kind: policyAuthenticated}
)

// RoleRestricted requires a verified identity holding role.
func RoleRestricted(role domain.Role) Policy {
	return Policy{kind: policyRole, role: role}
}

func (p Policy) String() string {
	switch p.kind {
	case policyAuthenticated:
		return "authenticated"
	case policyRole:
		return "role:" + p.role.String()
	default:
		return "anonymous"
	}
}

// Decide returns nil when id satisfies the policy, ErrUnauthenticated when an
// identity is required but absent and ErrForbidden when the role differs.
func (p Policy) Decide(id *domain.Identity) error {
	switch p.kind {
	case policyAnonymous:
		return nil
	case policyAuthenticated:
		if id == nil {
			return domain.ErrUnauthenticated
		}
		return nil
	default:
		if id == nil {
			return domain.ErrUnauthenticated
		}
		if id.Role != p.role {
			return domain.ErrForbidden
		}
		return nil
	}
}

// Authorize enforces p before the route handler runs.
func Authorize(p Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var caller *domain.Identity
			if id, ok := IdentityFrom(c); ok {
				caller = &id
			}
			if err := p.Decide(caller); err != nil {
				status := "401"
				if errors.Is(err, domain.ErrForbidden) {
					status = "403"
				}
				metrics.AuthorizationDenialsTotal.WithLabelValues(p.String(), status).Inc()
				return err
			}
			return next(c)
		}
	}
}
