package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Tomlord1122/project-backend/internal/auth"
	"github.com/Tomlord1122/project-backend/internal/domain"
	"github.com/Tomlord1122/project-backend/internal/repository"
)

const TokenTypeBearer = "bearer"

// AuthService implements the login flow and resolves bearer tokens back to
// users.
type AuthService interface {
	// Login returns a bearer token for valid credentials. Unknown emails and
	// wrong passwords both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*TokenResponse, error)

	// Authenticate validates raw and loads the user named by its subject.
	// Every failure is reported as domain.ErrUnauthenticated.
	Authenticate(ctx context.Context, raw string) (*domain.User, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens *auth.TokenService
	log    *logrus.Logger

	// dummyHash is compared against when the email is unknown so both
	// failure paths spend the same bcrypt time.
	dummyHash string
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenService, log *logrus.Logger) (AuthService, error) {
	dummy, err := hasher.Hash("timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		dummyHash: dummy,
	}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	email = NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.hasher.Verify(password, s.dummyHash)
		s.log.Debug("login rejected: unknown email")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.WithField("user_id", user.ID).Debug("login rejected: wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

func (s *authService) Authenticate(ctx context.Context, raw string) (*domain.User, error) {
	subject, err := s.tokens.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}

	user, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
		}
		return nil, err
	}
	return user, nil
}
