package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"campus-identity/internal/domain"
)

// IDTokenClaims son los claims del id_token que usa el aprovisionamiento.
type IDTokenClaims struct {
	PreferredUsername string `json:"preferred_username"`
	Email             string `json:"email"`
	OID               string `json:"oid"`
	Subject           string `json:"sub"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
}

// ResolvedEmail prefiere preferred_username sobre email.
func (c IDTokenClaims) ResolvedEmail() string {
	if v := strings.TrimSpace(c.PreferredUsername); v != "" {
		return v
	}
	return strings.TrimSpace(c.Email)
}

func (c IDTokenClaims) ObjectID() string {
	if c.OID != "" {
		return c.OID
	}
	return c.Subject
}

// DecodeIDToken lee el payload sin verificar la firma; el token llega directo
// del endpoint de tokens por el canal del servidor.
func DecodeIDToken(raw string) (IDTokenClaims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return IDTokenClaims{}, fmt.Errorf("%w: id_token is not a JWT", ErrTokenExchangeFailed)
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil {
		return IDTokenClaims{}, fmt.Errorf("%w: decode id_token payload: %w", ErrTokenExchangeFailed, err)
	}
	var claims IDTokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return IDTokenClaims{}, fmt.Errorf("%w: parse id_token payload: %w", ErrTokenExchangeFailed, err)
	}
	return claims, nil
}

// RoleResolver deriva el rol a partir del dominio del email institucional.
type RoleResolver struct {
	StudentDomain string
	TeacherDomain string
}

func NewRoleResolver(studentDomain, teacherDomain string) RoleResolver {
	return RoleResolver{
		StudentDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(studentDomain), "@")),
		TeacherDomain: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(teacherDomain), "@")),
	}
}

// InferRole evalúa primero el dominio de alumnos: learners.manipal.edu también
// termina en manipal.edu.
func (r RoleResolver) InferRole(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if r.StudentDomain != "" && strings.HasSuffix(email, "@"+r.StudentDomain) {
		return domain.RoleStudent, nil
	}
	if r.TeacherDomain != "" && strings.HasSuffix(email, "@"+r.TeacherDomain) {
		return domain.RoleTeacher, nil
	}
	return "", ErrUnauthorizedDomain
}
