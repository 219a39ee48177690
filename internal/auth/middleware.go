package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/persistence"
	apperrors "github.com/nexus-hrm/hrm-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SessionID string
	User      *domain.AuthUser
}

// AuthMiddleware validates bearer tokens and resolves their session records.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions *persistence.SessionStore
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions *persistence.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. A syntactically valid
// token whose session record has been deleted (logout, expiry) is rejected.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.sessions.Get(c.Context(), claims.ID)
	if err != nil {
		if errors.Is(err, persistence.ErrSessionNotFound) {
			return apperrors.NewUnauthorized("session ended")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{SessionID: claims.ID, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAdmin ensures the principal carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User.Role != domain.AuthRoleAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
