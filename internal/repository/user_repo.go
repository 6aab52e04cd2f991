package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"campus-identity/internal/domain"
)

// ErrEmailTaken se devuelve cuando la restricción UNIQUE de users.email rechaza el insert.
var ErrEmailTaken = errors.New("email already registered")

// UserRepository define el contrato de persistencia para usuarios y perfiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// CreateAccount inserta el User y su perfil (si hay) en una sola transacción.
	CreateAccount(ctx context.Context, account domain.Account) error
	GetStudentProfile(ctx context.Context, userID string) (domain.StudentProfile, error)
	GetTeacherProfile(ctx context.Context, userID string) (domain.TeacherProfile, error)
	Delete(ctx context.Context, id string) error
}

// PgUserRepository implementa UserRepository usando pgx.
type PgUserRepository struct {
	pool DBTX
}

func NewPgUserRepository(pool DBTX) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, first_name, last_name, department, year_joined,
		phone, profile_image, is_verified, login_provider, ms_oid, last_login_at, created_at`

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *PgUserRepository) scanUser(ctx context.Context, query string, arg string) (domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.Department,
		&u.YearJoined,
		&u.Phone,
		&u.ProfileImage,
		&u.IsVerified,
		&u.LoginProvider,
		&u.MSOID,
		&u.LastLoginAt,
		&u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *PgUserRepository) CreateAccount(ctx context.Context, account domain.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	u := account.User
	_, err = tx.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.FirstName,
		u.LastName,
		u.Department,
		u.YearJoined,
		u.Phone,
		u.ProfileImage,
		u.IsVerified,
		u.LoginProvider,
		u.MSOID,
		u.LastLoginAt,
		u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if p := account.Student; p != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO student_profiles (user_id, registration_number, batch_year, course_id, batch_id, cgpa, department, year_joined)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			u.ID, p.RegistrationNumber, p.BatchYear, p.CourseID, p.BatchID, p.CGPA, p.Department, p.YearJoined,
		)
		if err != nil {
			return fmt.Errorf("insert student profile: %w", err)
		}
	}

	if p := account.Teacher; p != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO teacher_profiles (user_id, employee_id, designation, qualification, department, year_joined)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, p.EmployeeID, p.Designation, p.Qualification, p.Department, p.YearJoined,
		)
		if err != nil {
			return fmt.Errorf("insert teacher profile: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *PgUserRepository) GetStudentProfile(ctx context.Context, userID string) (domain.StudentProfile, error) {
	const query = `
		SELECT user_id, registration_number, batch_year, course_id, batch_id, cgpa, department, year_joined
		FROM student_profiles
		WHERE user_id = $1
	`
	var p domain.StudentProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.RegistrationNumber,
		&p.BatchYear,
		&p.CourseID,
		&p.BatchID,
		&p.CGPA,
		&p.Department,
		&p.YearJoined,
	)
	if err != nil {
		return domain.StudentProfile{}, err
	}
	return p, nil
}

func (r *PgUserRepository) GetTeacherProfile(ctx context.Context, userID string) (domain.TeacherProfile, error) {
	const query = `
		SELECT user_id, employee_id, designation, qualification, department, year_joined
		FROM teacher_profiles
		WHERE user_id = $1
	`
	var p domain.TeacherProfile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.EmployeeID,
		&p.Designation,
		&p.Qualification,
		&p.Department,
		&p.YearJoined,
	)
	if err != nil {
		return domain.TeacherProfile{}, err
	}
	return p, nil
}

// Delete borra el usuario; el perfil cae por ON DELETE CASCADE.
func (r *PgUserRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
