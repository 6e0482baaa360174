package storage

import (
	"context"
	"sync"
	"time"

	"authgate/core"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func testHash(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(hash)
}

var (
	User1 = &core.User{
		ID:           uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Name:         "Existing User One",
		Email:        "user1@mock.test",
		PasswordHash: testHash("placeholder_1"),
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	User2 = &core.User{
		ID:           uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Name:         "Existing User Two",
		Email:        "existing@mock.test",
		PasswordHash: testHash("placeholder_2"),
		CreatedAt:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	AllUsers = []*core.User{User1, User2}
)

// MockRepository is an in-memory Repository that enforces the same email
// uniqueness invariant as the SQLite store.
type MockRepository struct {
	mu           sync.Mutex
	usersByID    map[uuid.UUID]*core.User
	usersByEmail map[string]*core.User

	// Track method calls for verification
	FindByIDCalls    int
	FindByEmailCalls int
	CreateUserCalls  int
}

func NewMockRepository() *MockRepository {
	repo := &MockRepository{
		usersByID:    make(map[uuid.UUID]*core.User),
		usersByEmail: make(map[string]*core.User),
	}

	for _, user := range AllUsers {
		repo.usersByID[user.ID] = user
		repo.usersByEmail[user.Email] = user
	}

	return repo
}

// NewEmptyMockRepository returns a repository without fixtures.
func NewEmptyMockRepository() *MockRepository {
	return &MockRepository{
		usersByID:    make(map[uuid.UUID]*core.User),
		usersByEmail: make(map[string]*core.User),
	}
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByIDCalls++

	user, ok := m.usersByID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return user, nil
}

func (m *MockRepository) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindByEmailCalls++

	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	return user, nil
}

func (m *MockRepository) CreateUser(ctx context.Context, user *core.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateUserCalls++

	if _, exists := m.usersByEmail[user.Email]; exists {
		return core.ErrAlreadyExists
	}

	m.usersByID[user.ID] = user
	m.usersByEmail[user.Email] = user

	return nil
}

// UserCount reports the number of stored accounts.
func (m *MockRepository) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.usersByID)
}
