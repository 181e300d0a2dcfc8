package server

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/Tomlord1122/project-backend/internal/domain"
)

// memRepo is an in-memory stand-in for the GORM repositories that keeps
// the email unique index and owner foreign key semantics.
type memRepo struct {
	mu     sync.Mutex
	users  []domain.User
	tasks  []domain.Task
	userID uint
	taskID uint
}

type memUsers struct{ *memRepo }

type memTasks struct{ *memRepo }

func (m memUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	m.userID++
	u.ID = m.userID
	m.users = append(m.users, *u)
	return nil
}

func (m memUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m memUsers) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return page(m.users, offset, limit), nil
}

func (m memUsers) FindWithTasks(ctx context.Context, id uint) (*domain.User, error) {
	u, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Tasks = []domain.Task{}
	for _, t := range m.tasks {
		if t.OwnerID == id {
			u.Tasks = append(u.Tasks, t)
		}
	}
	return u, nil
}

func (m memTasks) Create(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for _, u := range m.users {
		if u.ID == t.OwnerID {
			found = true
		}
	}
	if !found {
		return domain.ErrOwnerNotFound
	}
	m.taskID++
	t.ID = m.taskID
	m.tasks = append(m.tasks, *t)
	return nil
}

func (m memTasks) FindByID(_ context.Context, id uint) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (m memTasks) List(_ context.Context, offset, limit int) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sort.Slice(m.tasks, func(i, j int) bool { return m.tasks[i].ID < m.tasks[j].ID })
	return page(m.tasks, offset, limit), nil
}

func (m memTasks) Update(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == t.ID {
			m.tasks[i].Title = t.Title
			m.tasks[i].Description = t.Description
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func (m memTasks) Delete(_ context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

func page[T any](items []T, offset, limit int) []T {
	out := make([]T, 0)
	for i := offset; i < len(items) && len(out) < limit; i++ {
		out = append(out, items[i])
	}
	return out
}

type fakeDB struct{ status string }

func (f fakeDB) Health() map[string]string { return map[string]string{"status": f.status} }
func (f fakeDB) Migrate() error            { return nil }
func (f fakeDB) Close() error              { return nil }
func (f fakeDB) GetDB() *gorm.DB           { return nil }
