package http

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"campus-identity/internal/domain"
	"campus-identity/internal/repository"
)

type mockUserRepo struct {
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	students     map[string]domain.StudentProfile
	teachers     map[string]domain.TeacherProfile
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
	user, ok := m.usersByID[id]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	id, ok := m.usersByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, pgx.ErrNoRows
	}
	return m.usersByID[id], nil
}

func (m *mockUserRepo) CreateAccount(_ context.Context, account domain.Account) error {
	if _, ok := m.usersByEmail[account.User.Email]; ok {
		return repository.ErrEmailTaken
	}
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
	p, ok := m.students[userID]
	if !ok {
		return domain.StudentProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockUserRepo) GetTeacherProfile(_ context.Context, userID string) (domain.TeacherProfile, error) {
	p, ok := m.teachers[userID]
	if !ok {
		return domain.TeacherProfile{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
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

type mockDirectoryRepo struct {
	students map[string]domain.DirectoryStudent
	teachers map[string]domain.DirectoryTeacher
}

func (m *mockDirectoryRepo) FindStudentByEmail(_ context.Context, email string) (domain.DirectoryStudent, error) {
	rec, ok := m.students[strings.ToLower(email)]
	if !ok {
		return domain.DirectoryStudent{}, pgx.ErrNoRows
	}
	return rec, nil
}

func (m *mockDirectoryRepo) FindTeacherByEmail(_ context.Context, email string) (domain.DirectoryTeacher, error) {
	rec, ok := m.teachers[strings.ToLower(email)]
	if !ok {
		return domain.DirectoryTeacher{}, pgx.ErrNoRows
	}
	return rec, nil
}

type fakeIdentityProvider struct {
	idToken string
	err     error
}

func (f *fakeIdentityProvider) AuthCodeURL(state string) string {
	return "https://login.microsoftonline.com/common/oauth2/v2.0/authorize?state=" + state
}

func (f *fakeIdentityProvider) Exchange(context.Context, string) (string, error) {
	return f.idToken, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

var errDown = errors.New("connection refused")
