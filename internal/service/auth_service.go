package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"movie-discovery-bff/internal/auth"
	"movie-discovery-bff/internal/models"
	"movie-discovery-bff/internal/repository"
)

const minPasswordLength = 6

// UserStore is the account persistence used by AuthService and UserService.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertByEmail(ctx context.Context, u *models.User) (*models.User, error)
}

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// IdentityVerifier verifies a third-party ID token.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (auth.GoogleIdentity, error)
}

// AuthService handles signup and login.
type AuthService struct {
	users  UserStore
	tokens TokenIssuer
	google IdentityVerifier
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, tokens TokenIssuer, google IdentityVerifier) *AuthService {
	return &AuthService{users: users, tokens: tokens, google: google}
}

// Signup creates a password account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || req.Password == "" || name == "" {
		return nil, validationError("Email, password and name are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationError("Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, validationError("Password must be at least 6 characters")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, conflictError("Email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("Failed to create user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("Failed to create user", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Name: name, Role: models.RoleUser}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("Email already exists")
		}
		return nil, internalError("Failed to create user", err)
	}
	slog.Info("user signed up", "user_id", user.ID)

	return s.respond(user, "User created successfully")
}

// Signin checks an email/password pair.
func (s *AuthService) Signin(ctx context.Context, req models.SigninRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, validationError("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("User not found")
		}
		return nil, internalError("Failed to sign in", err)
	}
	if !auth.ComparePassword(user.PasswordHash, req.Password) {
		return nil, unauthorizedError("Invalid credentials")
	}

	return s.respond(user, "Login successful")
}

// GoogleLogin verifies a Google ID token and signs the matching account in,
// creating it on first use.
func (s *AuthService) GoogleLogin(ctx context.Context, req models.GoogleLoginRequest) (*models.AuthResponse, error) {
	if strings.TrimSpace(req.Token) == "" {
		return nil, validationError("Google token is required")
	}

	identity, err := s.google.Verify(ctx, req.Token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, unauthorizedError("Invalid Google token")
		}
		return nil, upstreamError("Google sign-in is unavailable", err)
	}

	email := normalizeEmail(identity.Email)
	if email == "" {
		return nil, validationError("Google account has no email")
	}
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user, err := s.users.UpsertByEmail(ctx, &models.User{
		Email:      email,
		Name:       name,
		Role:       models.RoleUser,
		IsVerified: true,
	})
	if err != nil {
		return nil, internalError("Failed to sign in with Google", err)
	}

	return s.respond(user, "Login successful")
}

func (s *AuthService) respond(user *models.User, message string) (*models.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, internalError("Failed to issue token", err)
	}
	return &models.AuthResponse{Message: message, Token: token, User: user.Summary()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
