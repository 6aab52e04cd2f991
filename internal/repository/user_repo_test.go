package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-identity/internal/domain"
)

func newUserTestFixture(t *testing.T) (*PgUserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewPgUserRepository(mock), mock
}

func sampleStudentAccount() domain.Account {
	hash := "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Account{
		User: domain.User{
			ID:            "u-1",
			Email:         "new.student@learners.manipal.edu",
			PasswordHash:  &hash,
			Role:          domain.RoleStudent,
			FirstName:     "Asha",
			LastName:      "Rao",
			Department:    "CS",
			YearJoined:    2023,
			LoginProvider: domain.ProviderLocal,
			CreatedAt:     now,
		},
		Student: &domain.StudentProfile{
			UserID:             "u-1",
			RegistrationNumber: "REG001",
			BatchYear:          2027,
			CourseID:           "btech-cs",
			BatchID:            "b-1",
			CGPA:               8.4,
			Department:         "CS",
			YearJoined:         2023,
		},
	}
}

func expectUserInsert(mock pgxmock.PgxPoolIface, u domain.User) *pgxmock.ExpectedExec {
	return mock.ExpectExec("INSERT INTO users").WithArgs(
		u.ID, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Department, u.YearJoined,
		u.Phone, u.ProfileImage, u.IsVerified, u.LoginProvider, u.MSOID, u.LastLoginAt, u.CreatedAt,
	)
}

func userColumnNames() []string {
	return []string{
		"id", "email", "password_hash", "role", "first_name", "last_name", "department", "year_joined",
		"phone", "profile_image", "is_verified", "login_provider", "ms_oid", "last_login_at", "created_at",
	}
}

// ---------------------------------------------------------------------------
// CreateAccount
// ---------------------------------------------------------------------------

func TestPgUserRepository_CreateAccount_StudentCommitsBothRows(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	acc := sampleStudentAccount()
	p := acc.Student

	mock.ExpectBegin()
	expectUserInsert(mock, acc.User).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO student_profiles").
		WithArgs(acc.User.ID, p.RegistrationNumber, p.BatchYear, p.CourseID, p.BatchID, p.CGPA, p.Department, p.YearJoined).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.CreateAccount(context.Background(), acc)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CreateAccount_TeacherProfile(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	acc := sampleStudentAccount()
	acc.User.Role = domain.RoleTeacher
	acc.Student = nil
	acc.Teacher = &domain.TeacherProfile{
		UserID:        acc.User.ID,
		EmployeeID:    "EMP9",
		Designation:   "Professor",
		Qualification: "PhD",
		Department:    "EE",
		YearJoined:    2010,
	}
	p := acc.Teacher

	mock.ExpectBegin()
	expectUserInsert(mock, acc.User).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO teacher_profiles").
		WithArgs(acc.User.ID, p.EmployeeID, p.Designation, p.Qualification, p.Department, p.YearJoined).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.CreateAccount(context.Background(), acc)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CreateAccount_AdminHasNoProfile(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	acc := sampleStudentAccount()
	acc.User.Role = domain.RoleAdmin
	acc.Student = nil

	mock.ExpectBegin()
	expectUserInsert(mock, acc.User).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := repo.CreateAccount(context.Background(), acc)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CreateAccount_ProfileFailureRollsBack(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	acc := sampleStudentAccount()
	p := acc.Student

	mock.ExpectBegin()
	expectUserInsert(mock, acc.User).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO student_profiles").
		WithArgs(acc.User.ID, p.RegistrationNumber, p.BatchYear, p.CourseID, p.BatchID, p.CGPA, p.Department, p.YearJoined).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.CreateAccount(context.Background(), acc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert student profile")
	assert.Contains(t, err.Error(), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CreateAccount_UniqueViolation(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	acc := sampleStudentAccount()

	mock.ExpectBegin()
	expectUserInsert(mock, acc.User).WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	mock.ExpectRollback()

	err := repo.CreateAccount(context.Background(), acc)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CreateAccount_BeginError(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.CreateAccount(context.Background(), sampleStudentAccount())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func TestPgUserRepository_GetByEmail_Found(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	acc := sampleStudentAccount()
	u := acc.User

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs(u.Email).
		WillReturnRows(pgxmock.NewRows(userColumnNames()).AddRow(
			u.ID, u.Email, u.PasswordHash, u.Role, u.FirstName, u.LastName, u.Department, u.YearJoined,
			u.Phone, u.ProfileImage, u.IsVerified, u.LoginProvider, nil, nil, u.CreatedAt,
		))

	got, err := repo.GetByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Role, got.Role)
	require.NotNil(t, got.PasswordHash)
	assert.Equal(t, *u.PasswordHash, *got.PasswordHash)
	assert.Nil(t, got.MSOID)
	assert.Nil(t, got.LastLoginAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_GetByEmail_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("missing@manipal.edu").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@manipal.edu")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_GetStudentProfile(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	p := sampleStudentAccount().Student
	mock.ExpectQuery("FROM student_profiles").
		WithArgs(p.UserID).
		WillReturnRows(pgxmock.NewRows([]string{
			"user_id", "registration_number", "batch_year", "course_id", "batch_id", "cgpa", "department", "year_joined",
		}).AddRow(p.UserID, p.RegistrationNumber, p.BatchYear, p.CourseID, p.BatchID, p.CGPA, p.Department, p.YearJoined))

	got, err := repo.GetStudentProfile(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.Equal(t, *p, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestPgUserRepository_Delete(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("u-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "u-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM users").
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "ghost"), pgx.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
