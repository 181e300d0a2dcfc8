package service

import (
	"context"
	"sort"
	"sync"

	"github.com/Tomlord1122/project-backend/internal/domain"
)

// memStore backs both fake repositories so the owner foreign key can be
// checked the way Postgres would.
type memStore struct {
	mu         sync.Mutex
	users      map[uint]domain.User
	tasks      map[uint]domain.Task
	nextUserID uint
	nextTaskID uint
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[uint]domain.User),
		tasks: make(map[uint]domain.Task),
	}
}

type memUserRepo struct{ s *memStore }

type memTaskRepo struct{ s *memStore }

func (r memUserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.s.nextUserID++
	user.ID = r.s.nextUserID
	stored := *user
	stored.Tasks = nil
	r.s.users[user.ID] = stored
	return nil
}

func (r memUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUserRepo) List(_ context.Context, offset, limit int) ([]domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return window(users, offset, limit), nil
}

func (r memUserRepo) FindWithTasks(ctx context.Context, id uint) (*domain.User, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.Tasks = []domain.Task{}
	for _, t := range r.s.tasks {
		if t.OwnerID == id {
			user.Tasks = append(user.Tasks, t)
		}
	}
	sort.Slice(user.Tasks, func(i, j int) bool { return user.Tasks[i].ID < user.Tasks[j].ID })
	return user, nil
}

func (r memTaskRepo) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[task.OwnerID]; !ok {
		return domain.ErrOwnerNotFound
	}
	r.s.nextTaskID++
	task.ID = r.s.nextTaskID
	r.s.tasks[task.ID] = *task
	return nil
}

func (r memTaskRepo) FindByID(_ context.Context, id uint) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &t, nil
}

func (r memTaskRepo) List(_ context.Context, offset, limit int) ([]domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tasks := make([]domain.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return window(tasks, offset, limit), nil
}

func (r memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	r.s.tasks[task.ID] = existing
	return nil
}

func (r memTaskRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
