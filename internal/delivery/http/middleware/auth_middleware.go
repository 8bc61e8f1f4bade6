package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tradegate/internal/domain/policy"
	"tradegate/internal/domain/repository"
	"tradegate/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// principalContextKey is where the resolved principal lives on the Echo context.
const principalContextKey = "principal"

// AuthMiddleware resolves bearer credentials into principals and gates
// routes by principal kind.
type AuthMiddleware struct {
	resolver         service.IdentityResolver
	refreshTokenRepo repository.RefreshTokenRepository
	logger           *slog.Logger
}

// AuthMiddlewareParams holds dependencies for AuthMiddleware, injected by Fx.
type AuthMiddlewareParams struct {
	fx.In

	Resolver         service.IdentityResolver
	RefreshTokenRepo repository.RefreshTokenRepository
	Logger           *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(params AuthMiddlewareParams) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:         params.Resolver,
		refreshTokenRepo: params.RefreshTokenRepo,
		logger:           params.Logger,
	}
}

// GetPrincipal returns the principal resolved for this request. Routes
// without auth middleware see the anonymous principal.
func GetPrincipal(c echo.Context) policy.Principal {
	if p, ok := c.Get(principalContextKey).(policy.Principal); ok {
		return p
	}

	return policy.Anonymous()
}

// Authenticate requires a valid bearer token and stores the resolved
// principal on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := m.resolve(c)
		if err != nil {
			return m.renderResolutionError(c, err)
		}

		c.Set(principalContextKey, p)

		return next(c)
	}
}

// OptionalAuthenticate resolves a credential when one is presented and falls
// back to the anonymous principal otherwise. Public catalog routes use this
// so owners and back-office staff see their wider views.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := m.resolve(c)
		if err != nil {
			if errors.Is(err, policy.ErrCredentialMissing) {
				c.Set(principalContextKey, policy.Anonymous())

				return next(c)
			}

			// A presented but broken credential is still rejected; silently
			// downgrading it to anonymous would mask client bugs.
			return m.renderResolutionError(c, err)
		}

		c.Set(principalContextKey, p)

		return next(c)
	}
}

// RequireBackOffice admits admins and sub-admins. Must run after Authenticate.
func (m *AuthMiddleware) RequireBackOffice(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := GetPrincipal(c)
		if p.Kind != policy.KindAdmin && p.Kind != policy.KindSubAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "back-office access required"})
		}

		return next(c)
	}
}

// RequireAdmin admits full administrators only. Must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := GetPrincipal(c)
		if p.Kind != policy.KindAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}

		return next(c)
	}
}

// RequireUser admits marketplace accounts only. Must run after Authenticate.
func (m *AuthMiddleware) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := GetPrincipal(c)
		if p.Kind != policy.KindUser {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "marketplace account required"})
		}

		return next(c)
	}
}

// resolve extracts the bearer credential and turns it into a principal. A
// session past its absolute cutoff also has its stored tokens invalidated.
func (m *AuthMiddleware) resolve(c echo.Context) (policy.Principal, error) {
	credential := ""

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		credential = strings.TrimPrefix(authHeader, "Bearer ")
		if credential == authHeader {
			return policy.Anonymous(), policy.ErrCredentialMalformed
		}
	}

	p, err := m.resolver.Resolve(credential, time.Now())
	if err != nil {
		if errors.Is(err, policy.ErrCredentialExpired) && p.ID != uuid.Nil {
			if delErr := m.refreshTokenRepo.DeleteRefreshTokensByUserID(c.Request().Context(), p.ID); delErr != nil {
				m.logger.Error("Failed to invalidate expired sessions",
					slog.Any("userID", p.ID),
					slog.Any("error", delErr),
				)
			}
		}

		return policy.Anonymous(), err
	}

	return p, nil
}

func (m *AuthMiddleware) renderResolutionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, policy.ErrCredentialMissing):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
	case errors.Is(err, policy.ErrCredentialExpired):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session expired, please log in again"})
	default:
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
	}
}
