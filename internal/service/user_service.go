package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"campus-identity/internal/domain"
	"campus-identity/internal/repository"
)

// UserService coordina registro, login y aprovisionamiento de cuentas.
type UserService struct {
	logger    *zap.Logger
	users     repository.UserRepository
	directory repository.DirectoryRepository
	tokens    *JWTService
	limiter   LoginRateLimiter
	now       func() time.Time
}

func NewUserService(
	logger *zap.Logger,
	users repository.UserRepository,
	directory repository.DirectoryRepository,
	tokens *JWTService,
	limiter LoginRateLimiter,
) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewLoginRateLimiter(15*time.Minute, 10)
	}
	return &UserService{
		logger:    logger,
		users:     users,
		directory: directory,
		tokens:    tokens,
		limiter:   limiter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Email        string
	Password     string
	Role         string
	FirstName    string
	LastName     string
	Phone        string
	ProfileImage string
	Profile      ProfileFields
}

// Register crea una cuenta local. No emite token: el cliente debe hacer login.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	email := normalizeEmail(input.Email)
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if err := validateRegistration(email, input.Password, role); err != nil {
		return domain.Account{}, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return domain.Account{}, ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, fmt.Errorf("lookup user: %w", err)
	}

	account, err := s.buildAccount(ctx, domain.User{
		ID:            uuid.NewString(),
		Email:         email,
		Role:          role,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Phone:         strings.TrimSpace(input.Phone),
		ProfileImage:  strings.TrimSpace(input.ProfileImage),
		LoginProvider: domain.ProviderLocal,
		CreatedAt:     s.now(),
	}, input.Profile)
	if err != nil {
		return domain.Account{}, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("hash password: %w", err)
	}
	account.User.PasswordHash = &hash

	if err := s.persistAccount(ctx, account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

type LoginResult struct {
	Token string             `json:"token"`
	User  domain.UserSummary `json:"user"`
}

// Login valida credenciales locales. Email desconocido, cuenta federada y
// password incorrecto devuelven el mismo ErrInvalidCredentials. Los intentos
// se cuentan por email e IP de origen (WithClientIP).
func (s *UserService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !s.limiter.Allow(ctx, loginAttemptKey(ctx, email)) {
		return LoginResult{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == nil || !VerifyPassword(*user.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}
	return LoginResult{Token: token, User: user.Summary()}, nil
}

// FederatedIdentity son los datos extraídos del id_token del proveedor.
type FederatedIdentity struct {
	Email     string
	Role      string
	Subject   string
	FirstName string
	LastName  string
}

// ProvisionFederated reutiliza la cuenta existente para el email o la crea
// (JIT) con el mismo control de directorio que Register.
func (s *UserService) ProvisionFederated(ctx context.Context, identity FederatedIdentity) (domain.User, error) {
	email := normalizeEmail(identity.Email)
	if email == "" {
		return domain.User{}, validationError("email claim is required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, fmt.Errorf("lookup user: %w", err)
	}
	if identity.Role != domain.RoleStudent && identity.Role != domain.RoleTeacher {
		return domain.User{}, ErrUnauthorizedDomain
	}

	now := s.now()
	var oid *string
	if sub := strings.TrimSpace(identity.Subject); sub != "" {
		oid = &sub
	}
	account, err := s.buildAccount(ctx, domain.User{
		ID:            uuid.NewString(),
		Email:         email,
		Role:          identity.Role,
		FirstName:     strings.TrimSpace(identity.FirstName),
		LastName:      strings.TrimSpace(identity.LastName),
		IsVerified:    true,
		LoginProvider: domain.ProviderMicrosoft,
		MSOID:         oid,
		LastLoginAt:   &now,
		CreatedAt:     now,
	}, ProfileFields{})
	if err != nil {
		return domain.User{}, err
	}

	if err := s.persistAccount(ctx, account); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Otro callback concurrente creó la cuenta primero.
			return s.users.GetByEmail(ctx, email)
		}
		return domain.User{}, err
	}
	s.logger.Info("federated account provisioned",
		zap.String("user_id", account.User.ID),
		zap.String("role", account.User.Role),
	)
	return account.User, nil
}

// IssueToken emite el token de sesión para un usuario ya resuelto.
func (s *UserService) IssueToken(user domain.User) (string, error) {
	return s.tokens.Issue(user.ID, user.Role)
}

// GetAccount devuelve el usuario con el perfil que corresponde a su rol.
func (s *UserService) GetAccount(ctx context.Context, userID string) (domain.Account, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrUserNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup user: %w", err)
	}

	account := domain.Account{User: user}
	switch user.Role {
	case domain.RoleStudent:
		p, err := s.users.GetStudentProfile(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("lookup student profile: %w", err)
		}
		if err == nil {
			account.Student = &p
		}
	case domain.RoleTeacher:
		p, err := s.users.GetTeacherProfile(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, fmt.Errorf("lookup teacher profile: %w", err)
		}
		if err == nil {
			account.Teacher = &p
		}
	}
	return account, nil
}

// DeleteUser borra la cuenta y, por cascada, su perfil.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func validateRegistration(email, password, role string) error {
	if email == "" {
		return validationError("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return validationError("email is invalid")
	}
	if password == "" {
		return validationError("password is required")
	}
	if role == "" {
		return validationError("role is required")
	}
	if !domain.IsValidRole(role) {
		return validationError("role must be one of student, teacher, admin")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
