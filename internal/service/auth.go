package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/crucial707/stockroom/internal/auth"
	"github.com/crucial707/stockroom/internal/models"
	"github.com/crucial707/stockroom/internal/repo"
)

// UserStore is the persistence AuthService needs.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash, role string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.User, error)
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(userID int, ttl time.Duration) (string, error)
	Parse(token string) (int, error)
}

// SignupInput is the payload of POST /api/auth/signup.
type SignupInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

// AuthResult is returned by Signup and Signin.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService owns credentials and token issuance.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	cache  SummaryInvalidator
	cost   int
	// dummyHash is compared against on unknown emails so both signin failures cost one bcrypt check.
	dummyHash []byte
}

// NewAuthService builds an AuthService. cache may be nil; it is invalidated
// whenever the set of users changes. cost is the bcrypt cost; 0 means bcrypt.DefaultCost.
func NewAuthService(users UserStore, tokens TokenIssuer, cache SummaryInvalidator, cost int) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("stockroom-dummy-password"), cost)
	return &AuthService{users: users, tokens: tokens, cache: cache, cost: cost, dummyHash: dummy}
}

// Signup creates an account and returns a 7-day token.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := check(in); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, in.Username, in.Email, string(hash), in.Role)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.invalidate(ctx)

	return s.issue(user, auth.SignupTokenTTL)
}

// Signin verifies credentials and returns a 1-day token.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user, auth.SigninTokenTTL)
}

// ChangePassword overwrites the password of the account with email.
// It does not ask for the old password or a token.
func (s *AuthService) ChangePassword(ctx context.Context, email, newPassword string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("email", "required")
	}
	if newPassword == "" {
		return invalid("newPassword", "required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, email, string(hash)); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("user")
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ListUsers returns every user; password hashes are never loaded.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes the user with id.
func (s *AuthService) DeleteUser(ctx context.Context, id int) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("user")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *AuthService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

// CurrentUser loads the user a token was issued for.
func (s *AuthService) CurrentUser(ctx context.Context, id int) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("user")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to its stored user. A token whose user
// was deleted is rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.CurrentUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, auth.ErrInvalidToken
	}
	return user, err
}

func (s *AuthService) issue(user *models.User, ttl time.Duration) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, ttl)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
