package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"circlepoint/internal/domain"
	"circlepoint/internal/pkg/apperr"
	"circlepoint/internal/pkg/validator"
	"circlepoint/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service registers accounts and issues identity tokens. Every new account
// starts as a plain user; manager rights come from an approved application.
type Service struct {
	users UserRepository
	jwt   tokenIssuer
	cost  int
}

func NewService(users UserRepository, jwt tokenIssuer, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Service{users: users, jwt: jwt, cost: cost}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	email := normalizeEmail(req.Email)
	switch {
	case email == "":
		return nil, apperr.ErrMissingField.WithField("email")
	case req.Password == "":
		return nil, apperr.ErrMissingField.WithField("password")
	case !validator.IsEmail(email):
		return nil, ErrInvalidEmail.WithField("email")
	case len(req.Password) < minPasswordLength:
		return nil, ErrWeakPassword.WithField("password")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *Service) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	if !actor.Authenticated() {
		return nil, apperr.ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *Service) session(user *domain.User) (*Session, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
