package service

import (
	"context"
	"sync"

	"github.com/grvup/classroom/internal/model"
	"github.com/grvup/classroom/internal/repository"
	pkgerrors "github.com/grvup/classroom/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // key: user id

	createErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return pkgerrors.ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = model.NewID()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *mockUserRepo) GetBySessionID(_ context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, pkgerrors.ErrNotFound
	}
	return m.find(func(u *model.User) bool { return u.SessionID == sessionID })
}

func (m *mockUserRepo) UpdateSession(_ context.Context, userID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	u.SessionID = sessionID
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, userID, passwordHash, salt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return pkgerrors.ErrNotFound
	}
	u.Password = passwordHash
	u.Salt = salt
	return nil
}

func (m *mockUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (m *mockUserRepo) countByEmail(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Email == email {
			n++
		}
	}
	return n
}

// ── Mock ClassRepository ──

// mockClassRepo stores deep copies so a service cannot mutate stored state
// without calling Save, and checks Version like the real stores.
type mockClassRepo struct {
	mu      sync.Mutex
	classes map[string]*model.Class

	saves   int
	saveErr error
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if class.ID == "" {
		class.ID = model.NewID()
	}
	class.Version = 1
	m.classes[class.ID] = cloneClass(class)
	return nil
}

func (m *mockClassRepo) ListByOwner(_ context.Context, ownerID string) ([]model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []model.Class{}
	for _, c := range m.classes {
		if c.OwnerUserID == ownerID {
			result = append(result, *cloneClass(c))
		}
	}
	return result, nil
}

func (m *mockClassRepo) GetOwned(_ context.Context, classID, ownerID string) (*model.Class, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.classes[classID]
	if !ok || c.OwnerUserID != ownerID {
		return nil, pkgerrors.ErrNotFound
	}
	return cloneClass(c), nil
}

func (m *mockClassRepo) Save(_ context.Context, class *model.Class) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	stored, ok := m.classes[class.ID]
	if !ok || stored.OwnerUserID != class.OwnerUserID || stored.Version != class.Version {
		return pkgerrors.ErrOptimisticLock
	}
	class.Version++
	m.classes[class.ID] = cloneClass(class)
	m.saves++
	return nil
}

// stored returns the persisted copy of a class
func (m *mockClassRepo) stored(id string) *model.Class {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.classes[id]; ok {
		return cloneClass(c)
	}
	return nil
}

func cloneClass(c *model.Class) *model.Class {
	cp := *c
	cp.Students = append([]model.Student(nil), c.Students...)
	cp.Lessons = make([]model.Lesson, len(c.Lessons))
	for i, l := range c.Lessons {
		l.Attendance = append([]string{}, l.Attendance...)
		cp.Lessons[i] = l
	}
	return &cp
}

// ── Fixtures ──

func newMockRepository() (*repository.Repository, *mockUserRepo, *mockClassRepo) {
	users := newMockUserRepo()
	classes := newMockClassRepo()
	return &repository.Repository{User: users, Class: classes}, users, classes
}
