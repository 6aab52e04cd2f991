package domain

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	ProviderLocal     = "local"
	ProviderMicrosoft = "microsoft"
)

// IsValidRole indica si el rol pertenece al enum soportado.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  *string    `json:"-"`
	Role          string     `json:"role"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Department    string     `json:"department"`
	YearJoined    int        `json:"year_joined"`
	Phone         string     `json:"phone"`
	ProfileImage  string     `json:"profile_image"`
	IsVerified    bool       `json:"is_verified"`
	LoginProvider string     `json:"login_provider"`
	MSOID         *string    `json:"ms_oid,omitempty"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// UserSummary es la proyección mínima devuelta por el login con password.
type UserSummary struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
