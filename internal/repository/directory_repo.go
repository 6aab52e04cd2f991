package repository

import (
	"context"

	"campus-identity/internal/domain"
)

// DirectoryRepository expone el directorio institucional en modo solo lectura.
// Lo mantiene al día un proceso de importación externo a este servicio.
type DirectoryRepository interface {
	FindStudentByEmail(ctx context.Context, email string) (domain.DirectoryStudent, error)
	FindTeacherByEmail(ctx context.Context, email string) (domain.DirectoryTeacher, error)
}

// PgDirectoryRepository implementa DirectoryRepository sobre su propio pool,
// que puede apuntar a otra base distinta de la de credenciales.
type PgDirectoryRepository struct {
	pool DBTX
}

func NewPgDirectoryRepository(pool DBTX) *PgDirectoryRepository {
	return &PgDirectoryRepository{pool: pool}
}

func (r *PgDirectoryRepository) FindStudentByEmail(ctx context.Context, email string) (domain.DirectoryStudent, error) {
	const query = `
		SELECT email, first_name, last_name, registration_number, batch_year, course_id, batch_id, cgpa, department, year_joined
		FROM directory_students
		WHERE lower(email) = lower($1)
	`
	var s domain.DirectoryStudent
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&s.Email,
		&s.FirstName,
		&s.LastName,
		&s.RegistrationNumber,
		&s.BatchYear,
		&s.CourseID,
		&s.BatchID,
		&s.CGPA,
		&s.Department,
		&s.YearJoined,
	)
	if err != nil {
		return domain.DirectoryStudent{}, err
	}
	return s, nil
}

func (r *PgDirectoryRepository) FindTeacherByEmail(ctx context.Context, email string) (domain.DirectoryTeacher, error) {
	const query = `
		SELECT email, first_name, last_name, employee_id, designation, department, year_joined
		FROM directory_teachers
		WHERE lower(email) = lower($1)
	`
	var t domain.DirectoryTeacher
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&t.Email,
		&t.FirstName,
		&t.LastName,
		&t.EmployeeID,
		&t.Designation,
		&t.Department,
		&t.YearJoined,
	)
	if err != nil {
		return domain.DirectoryTeacher{}, err
	}
	return t, nil
}
