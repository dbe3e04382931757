package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase describes authentication/registration behavior.
type AuthUseCase interface {
	Register(ctx context.Context, username, email, password string) (User, error)
	Login(ctx context.Context, username, password string) (AuthResult, error)
}

// ProfileUseCase exposes the authenticated user's own account.
type ProfileUseCase interface {
	Get(ctx context.Context, userID uuid.UUID) (User, error)
	UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (User, error)
}

type AuthResult struct {
	User  User
	Token string
}

type Service struct {
	repo   UserRepository
	tokens TokenGenerator
}

// NewAuthService returns the default implementation of AuthUseCase and ProfileUseCase.
func NewAuthService(repo UserRepository, tokens TokenGenerator) *Service {
	return &Service{repo: repo, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" {
		return User{}, ErrValidation("username and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrValidation("invalid email address")
	}

	// If user exists, fail fast (best-effort check; the unique index is authoritative)
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return User{}, ErrUserAlreadyExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (AuthResult, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return AuthResult{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	token, err := s.tokens.Generate(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: user, Token: token}, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateEmail(ctx context.Context, userID uuid.UUID, email string) (User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return User{}, ErrValidation("invalid email address")
	}
	if err := s.repo.UpdateEmail(ctx, userID, email); err != nil {
		return User{}, err
	}
	return s.repo.GetByID(ctx, userID)
}
