package courierserver

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	driverports "github.com/Apurer/courier-api/internal/domains/drivers/ports"
	userdomain "github.com/Apurer/courier-api/internal/domains/users/domain"
	userports "github.com/Apurer/courier-api/internal/domains/users/ports"
	apierrors "github.com/Apurer/courier-api/internal/shared/errors"
)

const principalKey = "courier.principal"

// Authenticator resolves bearer tokens through the users context.
type Authenticator struct {
	users   userports.Service
	drivers driverports.Service
}

type AuthenticatorOption func(*Authenticator)

// WithDriverGate re-checks the account status behind every driver token so a
// rejected driver loses access without waiting for the session to expire.
func WithDriverGate(drivers driverports.Service) AuthenticatorOption {
	return func(a *Authenticator) { a.drivers = drivers }
}

func NewAuthenticator(users userports.Service, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{users: users}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// RequireRole rejects requests without a valid bearer token (401) or whose
// principal holds none of roles (403).
func (a *Authenticator) RequireRole(roles ...userdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if a == nil || a.users == nil || token == "" {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("bearer token required"))
			return
		}
		principal, err := a.users.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		if !hasRole(principal.Role, roles) {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("role "+string(principal.Role)+" may not access this resource"))
			return
		}
		if principal.Role == userdomain.RoleDriver && a.drivers != nil {
			driver, err := a.drivers.Get(c.Request.Context(), principal.Subject)
			if err != nil {
				if errors.Is(err, driverports.ErrNotFound) {
					respondProblem(c, apierrors.ErrUnauthorized.WithDetail("driver account no longer exists"))
					return
				}
				respondError(c, err)
				return
			}
			if !driver.Approved() {
				respondProblem(c, apierrors.ErrForbidden.WithDetail("driver account is "+string(driver.Status)))
				return
			}
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

func hasRole(role userdomain.Role, allowed []userdomain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func principalFrom(c *gin.Context) *userdomain.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*userdomain.Principal); ok {
			return p
		}
	}
	return nil
}

// requireSelfOrAdmin lets drivers reach only their own resources.
func requireSelfOrAdmin(c *gin.Context, subject string) bool {
	p := principalFrom(c)
	if p == nil {
		respondProblem(c, apierrors.ErrUnauthorized.WithDetail("bearer token required"))
		return false
	}
	if p.Role == userdomain.RoleAdmin || p.Subject == subject {
		return true
	}
	respondProblem(c, apierrors.ErrForbidden.WithDetail("drivers may only access their own resources"))
	return false
}
