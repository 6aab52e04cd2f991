package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"campus-identity/internal/domain"
	"campus-identity/internal/repository"
)

// ProfileFields son los datos de perfil que aporta quien se registra.
// Para alumnos y docentes el directorio institucional pisa los campos que posee.
type ProfileFields struct {
	Department         string
	YearJoined         int
	RegistrationNumber string
	BatchYear          int
	CourseID           string
	BatchID            string
	CGPA               float64
	EmployeeID         string
	Designation        string
	Qualification      string
}

// buildAccount arma el User y su perfil. Alumnos y docentes exigen registro en
// el directorio; los admins no tienen perfil ni pasan por el directorio.
func (s *UserService) buildAccount(ctx context.Context, user domain.User, fields ProfileFields) (domain.Account, error) {
	switch user.Role {
	case domain.RoleStudent:
		rec, err := s.directory.FindStudentByEmail(ctx, user.Email)
		if err != nil {
			return domain.Account{}, directoryLookupError(err)
		}
		user.Department = rec.Department
		user.YearJoined = rec.YearJoined
		fillNames(&user, rec.FirstName, rec.LastName)
		return domain.Account{
			User: user,
			Student: &domain.StudentProfile{
				UserID:             user.ID,
				RegistrationNumber: rec.RegistrationNumber,
				BatchYear:          rec.BatchYear,
				CourseID:           rec.CourseID,
				BatchID:            rec.BatchID,
				CGPA:               rec.CGPA,
				Department:         rec.Department,
				YearJoined:         rec.YearJoined,
			},
		}, nil

	case domain.RoleTeacher:
		rec, err := s.directory.FindTeacherByEmail(ctx, user.Email)
		if err != nil {
			return domain.Account{}, directoryLookupError(err)
		}
		user.Department = rec.Department
		user.YearJoined = rec.YearJoined
		fillNames(&user, rec.FirstName, rec.LastName)
		return domain.Account{
			User: user,
			Teacher: &domain.TeacherProfile{
				UserID:        user.ID,
				EmployeeID:    rec.EmployeeID,
				Designation:   rec.Designation,
				Qualification: fields.Qualification,
				Department:    rec.Department,
				YearJoined:    rec.YearJoined,
			},
		}, nil

	case domain.RoleAdmin:
		user.Department = fields.Department
		user.YearJoined = fields.YearJoined
		return domain.Account{User: user}, nil
	}
	return domain.Account{}, validationError("role must be one of student, teacher, admin")
}

// persistAccount escribe el User y su perfil de forma atómica.
func (s *UserService) persistAccount(ctx context.Context, account domain.Account) error {
	err := s.users.CreateAccount(ctx, account)
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrEmailTaken) {
		return ErrDuplicateEmail
	}
	s.logger.Error("create account failed",
		zap.Error(err),
		zap.String("role", account.User.Role),
		zap.String("login_provider", account.User.LoginProvider),
	)
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func directoryLookupError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDirectoryRecordNotFound
	}
	return fmt.Errorf("directory lookup: %w", err)
}

func fillNames(user *domain.User, firstName, lastName string) {
	if user.FirstName == "" {
		user.FirstName = firstName
	}
	if user.LastName == "" {
		user.LastName = lastName
	}
}
