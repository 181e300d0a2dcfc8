package service

import (
	"net/mail"
	"strings"

	"github.com/Tomlord1122/project-backend/internal/domain"
)

// Input/Output Structs (Data Transfer Objects - DTOs)
// They decouple the HTTP layer from the GORM models; the password hash
// never appears in any response type.

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// bcrypt ignores input past 72 bytes and x/crypto rejects it.
	maxPasswordBytes = 72
)

// Page is an offset/limit window over an id-ordered list.
type Page struct {
	Skip  int
	Limit int
}

func (p Page) Validate() error {
	if p.Skip < 0 {
		return domain.NewValidationError("skip", "must be greater than or equal to 0")
	}
	if p.Limit < 0 {
		return domain.NewValidationError("limit", "must be greater than or equal to 0")
	}
	return nil
}

func (p Page) normalized() Page {
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// CreateUserRequest holds the registration payload.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CreateUserRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	if r.Name == "" {
		return domain.NewValidationError("name", "field required")
	}
	if r.Email == "" {
		return domain.NewValidationError("email", "field required")
	}
	if addr, err := mail.ParseAddress(r.Email); err != nil || addr.Address != r.Email {
		return domain.NewValidationError("email", "not a valid email address")
	}
	if r.Password == "" {
		return domain.NewValidationError("password", "field required")
	}
	if len(r.Password) > maxPasswordBytes {
		return domain.NewValidationError("password", "must be at most 72 bytes")
	}
	return nil
}

// TaskRequest is used for both creation and full replacement of a task.
type TaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

func (r *TaskRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return domain.NewValidationError("title", "field required")
	}
	return nil
}

type UserResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TaskResponse struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	OwnerID     uint    `json:"owner_id"`
}

type UserWithTasksResponse struct {
	UserResponse
	Tasks []TaskResponse `json:"tasks"`
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		OwnerID:     t.OwnerID,
	}
}

func toTaskResponses(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		responses = append(responses, toTaskResponse(&tasks[i]))
	}
	return responses
}
