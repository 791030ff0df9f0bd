package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/neatly/internal/common"
	"github.com/dmitrijs2005/neatly/internal/dbx"
	"github.com/dmitrijs2005/neatly/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/neatly/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/neatly/internal/server/repositories/users"
	_ "modernc.org/sqlite"
)

// memStore backs both fake repositories. It ignores the DBTX it is bound to,
// so rollbacks are not simulated.
type memStore struct {
	mu      sync.Mutex
	seq     int
	users   map[string]*models.User
	refresh map[string]map[string]time.Time

	usersErr   error
	refreshErr error
	createErr  error
}

func newMemStore() *memStore {
	return &memStore{
		users:   map[string]*models.User{},
		refresh: map[string]map[string]time.Time{},
	}
}

func (m *memStore) refreshCount(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.refresh[userID])
}

type fakeUsersRepo struct{ s *memStore }

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	for _, existing := range f.s.users {
		if existing.Email == u.Email {
			return nil, common.ErrConflict
		}
	}
	f.s.seq++
	cp := *u
	cp.ID = fmt.Sprintf("user-%d", f.s.seq)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.s.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	for _, u := range f.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return nil, f.s.usersErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) SetAvatarKey(ctx context.Context, id string, key string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.usersErr != nil {
		return f.s.usersErr
	}
	u, ok := f.s.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.AvatarKey = key
	return nil
}

type fakeRefreshRepo struct{ s *memStore }

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, tokenHash string, expiresAt time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.createErr != nil {
		return f.s.createErr
	}
	if f.s.refresh[userID] == nil {
		f.s.refresh[userID] = map[string]time.Time{}
	}
	f.s.refresh[userID][tokenHash] = expiresAt
	return nil
}

func (f *fakeRefreshRepo) DeleteByHash(ctx context.Context, userID string, tokenHash string) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.refreshErr != nil {
		return false, f.s.refreshErr
	}
	if _, ok := f.s.refresh[userID][tokenHash]; !ok {
		return false, nil
	}
	delete(f.s.refresh[userID], tokenHash)
	return true, nil
}

func (f *fakeRefreshRepo) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.refreshErr != nil {
		return 0, f.s.refreshErr
	}
	n := int64(len(f.s.refresh[userID]))
	delete(f.s.refresh, userID)
	return n, nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.refreshErr != nil {
		return 0, f.s.refreshErr
	}
	var n int64
	for _, set := range f.s.refresh {
		for h, exp := range set {
			if exp.Before(now) {
				delete(set, h)
				n++
			}
		}
	}
	return n, nil
}

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository     { return &fakeUsersRepo{m.s} }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository {
	return &fakeRefreshRepo{m.s}
}

// newTxDB returns a database that only serves BEGIN/COMMIT/ROLLBACK for
// dbx.WithTx; the fakes above never issue SQL.
func newTxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
