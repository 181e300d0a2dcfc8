package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/project-backend/internal/auth"
	"github.com/Tomlord1122/project-backend/internal/domain"
	"github.com/Tomlord1122/project-backend/internal/repository"
)

// UserService covers registration and read access to users.
type UserService interface {
	// Register validates req, hashes the password and stores the user.
	// A taken email yields domain.ErrDuplicateEmail.
	Register(ctx context.Context, req CreateUserRequest) (*UserResponse, error)

	ListUsers(ctx context.Context, page Page) ([]UserResponse, error)

	// GetUserWithTasks returns the user together with every task it owns.
	GetUserWithTasks(ctx context.Context, id uint) (*UserWithTasksResponse, error)
}

type userService struct {
	repo   repository.UserRepository
	hasher auth.PasswordHasher
	log    *logrus.Logger
}

func NewUserService(repo repository.UserRepository, hasher auth.PasswordHasher, log *logrus.Logger) UserService {
	return &userService{repo: repo, hasher: hasher, log: log}
}

func (s *userService) Register(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	response := toUserResponse(user)
	return &response, nil
}

func (s *userService) ListUsers(ctx context.Context, page Page) ([]UserResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	page = page.normalized()

	users, err := s.repo.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, toUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) GetUserWithTasks(ctx context.Context, id uint) (*UserWithTasksResponse, error) {
	user, err := s.repo.FindWithTasks(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserWithTasksResponse{
		UserResponse: toUserResponse(user),
		Tasks:        toTaskResponses(user.Tasks),
	}, nil
}
