package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tomlord1122/project-backend/internal/domain"

	"gorm.io/gorm"
)

// UserRepository persists users and doubles as the credential store.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, error)
	FindWithTasks(ctx context.Context, id uint) (*domain.User, error)
}

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create inserts user. user.PasswordHash must already hold a digest.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.WithContext(ctx).Omit("Tasks").Create(user).Error
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("find user %d", id))
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, notFound(err, "find user by email")
	}
	return &user, nil
}

func (r *gormUserRepository) List(ctx context.Context, offset, limit int) ([]domain.User, error) {
	users := make([]domain.User, 0)
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// FindWithTasks loads the user and all owned tasks, ordered by id. Preload
// fetches the tasks in one batched query rather than one per task.
func (r *gormUserRepository) FindWithTasks(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.id ASC")
		}).
		First(&user, id).Error
	if err != nil {
		return nil, notFound(err, fmt.Sprintf("find user %d with tasks", id))
	}
	if user.Tasks == nil {
		user.Tasks = []domain.Task{}
	}
	return &user, nil
}

func notFound(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
