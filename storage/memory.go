package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard-api/domain"
)

// Memory is an in-process Storage implementation used by tests and local
// development. It mirrors the Mongo implementation's filtering and sorting.
type Memory struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	boards map[string]domain.Board
	lists  map[string]domain.List
	tasks  map[string]domain.Task
}

func NewMemory() *Memory {
	return &Memory{
		users:  make(map[string]domain.User),
		boards: make(map[string]domain.Board),
		lists:  make(map[string]domain.List),
		tasks:  make(map[string]domain.Task),
	}
}

func (m *Memory) CreateUser(_ context.Context, u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = u
	return u, nil
}

func (m *Memory) UserByID(_ context.Context, id string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *Memory) UserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (m *Memory) Users(_ context.Context) ([]domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]domain.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (m *Memory) SaveUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	m.users[u.ID] = u
	return nil
}

func (m *Memory) CreateBoard(_ context.Context, b domain.Board) (domain.Board, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	m.boards[b.ID] = b
	return b, nil
}

func (m *Memory) BoardByID(_ context.Context, id string) (domain.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.boards[id]
	if !ok {
		return domain.Board{}, ErrNotFound
	}
	return b, nil
}

func (m *Memory) BoardsByOwner(_ context.Context, ownerID string) ([]domain.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	boards := make([]domain.Board, 0)
	for _, b := range m.boards {
		if b.OwnerID == ownerID && !b.IsArchived {
			boards = append(boards, b)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].CreatedAt.Before(boards[j].CreatedAt) })
	return boards, nil
}

func (m *Memory) Boards(_ context.Context) ([]domain.Board, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	boards := make([]domain.Board, 0)
	for _, b := range m.boards {
		if !b.IsArchived {
			boards = append(boards, b)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].CreatedAt.Before(boards[j].CreatedAt) })
	return boards, nil
}

func (m *Memory) SaveBoard(_ context.Context, b domain.Board) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boards[b.ID]; !ok {
		return ErrNotFound
	}
	b.UpdatedAt = time.Now().UTC()
	m.boards[b.ID] = b
	return nil
}

func (m *Memory) CreateList(_ context.Context, l domain.List) (domain.List, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	l.ID = uuid.NewString()
	l.CreatedAt = now
	l.UpdatedAt = now
	m.lists[l.ID] = l
	return l, nil
}

func (m *Memory) ListByID(_ context.Context, id string) (domain.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lists[id]
	if !ok {
		return domain.List{}, ErrNotFound
	}
	return l, nil
}

func (m *Memory) ListsByBoard(_ context.Context, boardID string, includeArchived bool) ([]domain.List, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lists := make([]domain.List, 0)
	for _, l := range m.lists {
		if l.BoardID != boardID {
			continue
		}
		if l.IsArchived && !includeArchived {
			continue
		}
		lists = append(lists, l)
	}
	sort.Slice(lists, func(i, j int) bool { return lists[i].Order < lists[j].Order })
	return lists, nil
}

func (m *Memory) SaveList(_ context.Context, l domain.List) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lists[l.ID]; !ok {
		return ErrNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	m.lists[l.ID] = l
	return nil
}

func (m *Memory) CreateTask(_ context.Context, t domain.Task) (domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	if t.Tags == nil {
		t.Tags = []string{}
	}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *Memory) TaskByID(_ context.Context, id string) (domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tasks[id]
	if !ok {
		return domain.Task{}, ErrNotFound
	}
	return t, nil
}

func (m *Memory) TasksByList(_ context.Context, listID string) ([]domain.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tasks := make([]domain.Task, 0)
	for _, t := range m.tasks {
		if t.ListID == listID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (m *Memory) SaveTask(_ context.Context, t domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	if t.Tags == nil {
		t.Tags = []string{}
	}
	m.tasks[t.ID] = t
	return nil
}

func (m *Memory) DeleteTask(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) DeleteTasksByList(_ context.Context, listID string) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := make([]domain.Task, 0)
	for id, t := range m.tasks {
		if t.ListID == listID {
			removed = append(removed, t)
			delete(m.tasks, id)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i].CreatedAt.Before(removed[j].CreatedAt) })
	return removed, nil
}
