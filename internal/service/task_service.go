package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/project-backend/internal/domain"
	"github.com/Tomlord1122/project-backend/internal/repository"
)

// TaskService defines the operations for managing tasks.
type TaskService interface {
	// CreateTask creates a task owned by ownerID on behalf of actor.
	CreateTask(ctx context.Context, actor *domain.User, ownerID uint, req TaskRequest) (*TaskResponse, error)

	ListTasks(ctx context.Context, page Page) ([]TaskResponse, error)

	// UpdateTask replaces title and description of an existing task.
	// actor may be nil when ownership is not enforced.
	UpdateTask(ctx context.Context, actor *domain.User, id uint, req TaskRequest) (*TaskResponse, error)

	DeleteTask(ctx context.Context, actor *domain.User, id uint) error
}

// taskService implements TaskService. When enforceOwnership is false any
// caller may modify any task, which is the documented default.
type taskService struct {
	repo             repository.TaskRepository
	enforceOwnership bool
	log              *logrus.Logger
}

func NewTaskService(repo repository.TaskRepository, enforceOwnership bool, log *logrus.Logger) TaskService {
	return &taskService{
		repo:             repo,
		enforceOwnership: enforceOwnership,
		log:              log,
	}
}

func (s *taskService) CreateTask(ctx context.Context, actor *domain.User, ownerID uint, req TaskRequest) (*TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.enforceOwnership {
		if actor == nil {
			return nil, domain.ErrUnauthenticated
		}
		if actor.ID != ownerID {
			return nil, domain.ErrForbidden
		}
	}

	task := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"task_id": task.ID, "owner_id": ownerID}).Debug("task created")
	response := toTaskResponse(task)
	return &response, nil
}

func (s *taskService) ListTasks(ctx context.Context, page Page) ([]TaskResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	page = page.normalized()

	tasks, err := s.repo.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}
	return toTaskResponses(tasks), nil
}

func (s *taskService) UpdateTask(ctx context.Context, actor *domain.User, id uint, req TaskRequest) (*TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.authorize(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	existing.Title = req.Title
	existing.Description = req.Description
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	response := toTaskResponse(existing)
	return &response, nil
}

func (s *taskService) DeleteTask(ctx context.Context, actor *domain.User, id uint) error {
	if _, err := s.authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.WithField("task_id", id).Debug("task deleted")
	return nil
}

// authorize loads the task and, when ownership is enforced, checks that
// actor owns it.
func (s *taskService) authorize(ctx context.Context, actor *domain.User, id uint) (*domain.Task, error) {
	if s.enforceOwnership && actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.enforceOwnership && task.OwnerID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return task, nil
}
