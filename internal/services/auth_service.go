// internal/services/auth_service.go
package services

import (
	"context"
	"strings"

	"github.com/taskhub/engine/internal/auth"
	"github.com/taskhub/engine/internal/models"
	"github.com/taskhub/engine/internal/repository"
	"github.com/taskhub/engine/internal/validators"
	appErr "github.com/taskhub/engine/pkg/errors"
	"github.com/taskhub/engine/pkg/logger"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid email or password"

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is what a successful signup or login hands back to the caller.
// User never carries the password hash.
type AuthResult struct {
	Token string
	User  models.User
}

// TokenIssuer is the part of the token codec the auth service needs.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type authService struct {
	users  repository.UserRepository
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, tokens TokenIssuer) AuthService {
	return &authService{users: users, hasher: hasher, tokens: tokens}
}

var _ AuthService = (*authService)(nil)

func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := validators.Signup(in.Name, in.Email, in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	email := repository.NormalizeEmail(in.Email)

	var existing models.User
	err := s.users.GetByEmail(ctx, email, &existing)
	switch {
	case err == nil:
		return nil, duplicateEmail(nil)
	case !appErr.IsCode(err, appErr.CodeNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent signup can win the race past the precheck
		if appErr.IsCode(err, appErr.CodeConflict) {
			return nil, duplicateEmail(err)
		}
		return nil, err
	}

	logger.L().Info("user signed up", zap.String("user_id", user.ID.String()))
	return s.result(user)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := validators.Login(in.Email, in.Password); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.users.GetCredentialsByEmail(ctx, in.Email, &user); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeUnauthorized, invalidCredentials)
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		logger.L().Error("stored password hash is unreadable", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, appErr.Wrap(err, appErr.CodeInternal, "verify password failed")
	}
	if !ok {
		return nil, appErr.New(appErr.CodeUnauthorized, invalidCredentials)
	}

	logger.L().Info("user logged in", zap.String("user_id", user.ID.String()))
	return s.result(&user)
}

func (s *authService) result(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue token failed")
	}
	out := *user
	out.PasswordHash = ""
	return &AuthResult{Token: token, User: out}, nil
}

func duplicateEmail(cause error) error {
	return appErr.Wrap(cause, appErr.CodeConflict, "Email already registered. Please use a different email or login.")
}

// compile-time check that the codec satisfies TokenIssuer
var _ TokenIssuer = (*auth.TokenCodec)(nil)
