package service

import (
	"context"
	"sync"

	"github.com/pixelbay/photoshare/internal/auth/domain"
	"github.com/pixelbay/photoshare/internal/auth/store"
)

// fakeStore is an in-memory store.Store for service tests.
type fakeStore struct {
	users *fakeUsers
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: &fakeUsers{byID: make(map[string]domain.User)}}
}

func (f *fakeStore) Users() store.Users        { return f.users }
func (f *fakeStore) ApplyMigrations() error    { return nil }
func (f *fakeStore) Close() error              { return nil }
func (f *fakeStore) Ping(context.Context) error { return nil }

func (f *fakeStore) Tx(context.Context) (store.Tx, error) {
	return &fakeTx{fakeStore: f}, nil
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return fn(&fakeTx{fakeStore: f})
}

type fakeTx struct {
	*fakeStore
}

func (t *fakeTx) Commit() error   { return nil }
func (t *fakeTx) Rollback() error { return nil }

type fakeUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User

	// failWith, when set, makes every call fail. Used to exercise the
	// internal-error path.
	failWith error
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeUsers) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	for _, u := range f.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, store.ErrNotFound
}

func (f *fakeUsers) CreateUser(_ context.Context, u domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return store.ErrAlreadyExists
		}
	}
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, userID, newHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = newHash
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) SetActive(_ context.Context, userID string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Active = active
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, userID string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return store.ErrNotFound
	}
	u.Role = role
	f.byID[userID] = u
	return nil
}

func (f *fakeUsers) CountUsers(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return 0, f.failWith
	}
	return int64(len(f.byID)), nil
}
