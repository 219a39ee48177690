package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexus-hrm/hrm-service/internal/auth"
	"github.com/nexus-hrm/hrm-service/internal/config"
	"github.com/nexus-hrm/hrm-service/internal/domain"
	"github.com/nexus-hrm/hrm-service/internal/persistence"
	apperrors "github.com/nexus-hrm/hrm-service/pkg/util"
)

// AuthService issues and ends operator sessions.
//
// Credential validation is an explicit stub, not a security boundary: any
// non-empty username/password pair is accepted as an admin. When a bootstrap
// admin is configured, logins under that username must present the matching
// password.
type AuthService struct {
	cfg      config.AuthConfig
	tokens   *auth.TokenManager
	sessions *persistence.SessionStore
	logger   *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, tokens *auth.TokenManager, sessions *persistence.SessionStore, logger *zap.Logger) *AuthService {
	return &AuthService{cfg: cfg, tokens: tokens, sessions: sessions, logger: logger}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// Login validates credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AuthUser, string, time.Time, error) {
	if username == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("username and password required")
	}

	if s.cfg.BootstrapAdminUsername != "" && username == s.cfg.BootstrapAdminUsername {
		if err := auth.ComparePassword(s.cfg.BootstrapAdminPassHash, password); err != nil {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
	}

	user := domain.AuthUser{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      domain.AuthRoleAdmin,
		LastLogin: time.Now(),
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Put(ctx, sessionID, user); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(sessionID, user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	s.logger.Info("session opened", zap.String("username", username), zap.String("session_id", sessionID))
	return &user, token, expiresAt, nil
}

// Logout ends the session; in-flight responses for it are rejected afterwards.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.MapError(err)
	}
	s.logger.Info("session ended", zap.String("session_id", sessionID))
	return nil
}
