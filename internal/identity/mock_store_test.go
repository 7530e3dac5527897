package identity

import (
	"context"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/shivanshkc/ghauth/internal/repository"
)

// mockStore is a mock implementation of repository.Store.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) FindByAccount(ctx context.Context, provider, uid string) (repository.User, error) {
	args := m.Called(ctx, provider, uid)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockStore) FindByEmail(ctx context.Context, email string) (repository.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockStore) FindByID(ctx context.Context, id string) (repository.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockStore) CreateUser(ctx context.Context, user repository.User) (repository.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(repository.User), args.Error(1)
}

func (m *mockStore) LinkAccount(ctx context.Context, userID string, account repository.Account,
	displayName string,
) error {
	args := m.Called(ctx, userID, account, displayName)
	return args.Error(0)
}

// memoryStore is an in-memory repository.Store with the same uniqueness rules as the real stores.
type memoryStore struct {
	mutex  sync.Mutex
	users  map[string]repository.User
	nextID int
	writes int
}

func newMemoryStore(users ...repository.User) *memoryStore {
	m := &memoryStore{users: map[string]repository.User{}}
	for _, u := range users {
		m.nextID++
		u.ID = strconv.Itoa(m.nextID)
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryStore) FindByAccount(_ context.Context, provider, uid string) (repository.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.HasAccount(provider, uid) {
			return clone(u), nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (m *memoryStore) FindByEmail(_ context.Context, email string) (repository.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (m *memoryStore) FindByID(_ context.Context, id string) (repository.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	u, ok := m.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return clone(u), nil
}

func (m *memoryStore) CreateUser(_ context.Context, user repository.User) (repository.User, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.User{}, repository.ErrConflict
		}
		for _, acc := range user.Accounts {
			if u.HasAccount(acc.Provider, acc.UID) {
				return repository.User{}, repository.ErrConflict
			}
		}
	}

	m.writes++
	m.nextID++
	user.ID = strconv.Itoa(m.nextID)
	m.users[user.ID] = clone(user)
	return user, nil
}

func (m *memoryStore) LinkAccount(_ context.Context, userID string, account repository.Account,
	displayName string,
) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.HasAccount(account.Provider, account.UID) {
			return repository.ErrConflict
		}
	}

	u, ok := m.users[userID]
	if !ok {
		return repository.ErrNotFound
	}

	m.writes++
	u.Accounts = append(u.Accounts, account)
	u.DisplayName = displayName
	m.users[userID] = u
	return nil
}

func (m *memoryStore) count() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.users)
}

// clone copies the user so that callers cannot modify the stored accounts.
func clone(u repository.User) repository.User {
	u.Accounts = append([]repository.Account{}, u.Accounts...)
	return u
}
