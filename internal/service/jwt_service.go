package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campus-identity/internal/domain"
)

const defaultTokenTTL = 24 * time.Hour

// JWTService emite y valida tokens de sesión HS256 sin estado.
// Un único secreto estático, sin issuer/audience, sin rotación ni revocación.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Claims lleva un único rol; no existe un arreglo "roles".
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Issue firma un token con sub, role, iat y exp = iat + ttl.
func (s *JWTService) Issue(subject, role string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrUnauthorized
	}
	if strings.TrimSpace(subject) == "" || !domain.IsValidRole(role) {
		return "", validationError("token subject and role are required")
	}
	now := s.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate devuelve ErrUnauthorized para cualquier falla: firma, formato o expiración.
func (s *JWTService) Validate(tokenString string) (Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrUnauthorized
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if _, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return Claims{}, ErrUnauthorized
	}
	if strings.TrimSpace(claims.Subject) == "" || !domain.IsValidRole(claims.Role) {
		return Claims{}, ErrUnauthorized
	}
	return claims, nil
}

// TTL expone la vigencia configurada.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}
