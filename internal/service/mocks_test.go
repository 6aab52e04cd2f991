package service

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"

	"campus-identity/internal/domain"
	"campus-identity/internal/repository"
)

type mockUserRepo struct {
	mu           sync.Mutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	students     map[string]domain.StudentProfile
	teachers     map[string]domain.TeacherProfile
	createErr    error
	creates      int

	// staleEmailReads simula lecturas previas al commit de otra request.
	staleEmailReads int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		students:     make(map[string]domain.StudentProfile),
		teachers:     make(map[string]domain.TeacherProfile),
	}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staleEmailReads > 0 {
		m.staleEmailReads--
		return domain.User{}, pgx.ErrNoRows
	}
	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) CreateAccount(_ context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.usersByEmail[account.User.Email]; ok {
		return repository.ErrEmailTaken
	}
	m.creates++
	m.usersByID[account.User.ID] = account.User
	m.usersByEmail[account.User.Email] = account.User.ID
	if account.Student != nil {
		m.students[account.User.ID] = *account.Student
	}
	if account.Teacher != nil {
		m.teachers[account.User.ID] = *account.Teacher
	}
	return nil
}

func (m *mockUserRepo) GetStudentProfile(_ context.Context, userID string) (domain.StudentProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.students[userID]
	if !ok {
		return domain.StudentProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockUserRepo) GetTeacherProfile(_ context.Context, userID string) (domain.TeacherProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.teachers[userID]
	if !ok {
		return domain.TeacherProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.usersByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	delete(m.usersByID, id)
	delete(m.usersByEmail, user.Email)
	delete(m.students, id)
	delete(m.teachers, id)
	return nil
}

func (m *mockUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.usersByID)
}

type mockDirectoryRepo struct {
	students map[string]domain.DirectoryStudent
	teachers map[string]domain.DirectoryTeacher
	lookups  int
}

func newMockDirectoryRepo() *mockDirectoryRepo {
	return &mockDirectoryRepo{
		students: make(map[string]domain.DirectoryStudent),
		teachers: make(map[string]domain.DirectoryTeacher),
	}
}

func (m *mockDirectoryRepo) FindStudentByEmail(_ context.Context, email string) (domain.DirectoryStudent, error) {
	m.lookups++
	rec, ok := m.students[strings.ToLower(email)]
	if !ok {
		return domain.DirectoryStudent{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (m *mockDirectoryRepo) FindTeacherByEmail(_ context.Context, email string) (domain.DirectoryTeacher, error) {
	m.lookups++
	rec, ok := m.teachers[strings.ToLower(email)]
	if !ok {
		return domain.DirectoryTeacher{}, pgx.ErrNoRows
	}
	return rec, nil
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(context.Context, string) bool { return true }
