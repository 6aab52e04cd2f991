package service

import (
	"context"
	"errors"
	"testing"

	"campus-identity/internal/domain"
)

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		p       Principal
		allowed []string
		want    error
	}{
		{"allowed", Principal{UserID: "u1", Role: domain.RoleAdmin}, []string{domain.RoleAdmin}, nil},
		{"one of many", Principal{UserID: "u1", Role: domain.RoleTeacher}, []string{domain.RoleAdmin, domain.RoleTeacher}, nil},
		{"wrong role", Principal{UserID: "u1", Role: domain.RoleStudent}, []string{domain.RoleAdmin}, ErrForbidden},
		{"no allowed roles", Principal{UserID: "u1", Role: domain.RoleAdmin}, nil, ErrForbidden},
		{"anonymous", Principal{}, []string{domain.RoleAdmin}, ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireRole(tc.p, tc.allowed...)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRequireSelfOrAdmin(t *testing.T) {
	cases := []struct {
		name   string
		p      Principal
		target string
		want   error
	}{
		{"self", Principal{UserID: "u1", Role: domain.RoleStudent}, "u1", nil},
		{"admin on other", Principal{UserID: "a1", Role: domain.RoleAdmin}, "u1", nil},
		{"teacher on other", Principal{UserID: "t1", Role: domain.RoleTeacher}, "u1", ErrForbidden},
		{"anonymous", Principal{}, "u1", ErrUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireSelfOrAdmin(tc.p, tc.target)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	if _, ok := PrincipalFromContext(context.Background()); ok {
		t.Fatalf("expected no principal in empty context")
	}
	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1", Role: domain.RoleStudent})
	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID != "u1" || p.Role != domain.RoleStudent {
		t.Fatalf("unexpected principal %+v (ok=%v)", p, ok)
	}
}
