package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"campus-identity/internal/domain"
)

// IdentityProvider abstrae el proveedor OAuth (Microsoft en producción).
type IdentityProvider interface {
	AuthCodeURL(state string) string
	// Exchange canjea el code y devuelve el id_token crudo.
	Exchange(ctx context.Context, code string) (string, error)
}

type OAuthService struct {
	logger   *zap.Logger
	provider IdentityProvider
	users    *UserService
	roles    RoleResolver
}

func NewOAuthService(logger *zap.Logger, provider IdentityProvider, users *UserService, roles RoleResolver) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{logger: logger, provider: provider, users: users, roles: roles}
}

// LoginURL arma la URL de autorización con un state aleatorio.
// El state no se persiste ni se valida en el callback.
func (s *OAuthService) LoginURL() (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state), nil
}

type CallbackResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (s *OAuthService) Callback(ctx context.Context, code string) (CallbackResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CallbackResult{}, validationError("code is required")
	}

	rawIDToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("oauth code exchange failed", zap.Error(err))
		return CallbackResult{}, err
	}
	claims, err := DecodeIDToken(rawIDToken)
	if err != nil {
		s.logger.Warn("oauth id_token decode failed", zap.Error(err))
		return CallbackResult{}, err
	}

	email := normalizeEmail(claims.ResolvedEmail())
	if email == "" {
		return CallbackResult{}, validationError("id_token has no email claim")
	}
	role, err := s.roles.InferRole(email)
	if err != nil {
		return CallbackResult{}, err
	}

	user, err := s.users.ProvisionFederated(ctx, FederatedIdentity{
		Email:     email,
		Role:      role,
		Subject:   claims.ObjectID(),
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
	})
	if err != nil {
		return CallbackResult{}, err
	}

	token, err := s.users.IssueToken(user)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("issue token: %w", err)
	}
	return CallbackResult{Token: token, User: user}, nil
}

func randomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
