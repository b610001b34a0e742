package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/ec-shop-core/internal/apperr"
	"github.com/example/ec-shop-core/internal/authz"
	"github.com/example/ec-shop-core/internal/schema"
)

const bcryptCost = 12

// Service implements the register and login usecases.
type Service struct {
	users      UserRepository
	tokens     *TokenService
	adminEmail string
	logger     logrus.FieldLogger
}

// NewService builds the auth service. A user registering with adminEmail is
// granted the admin role; everyone else is a buyer.
func NewService(users UserRepository, tokens *TokenService, adminEmail string, logger logrus.FieldLogger) *Service {
	return &Service{users: users, tokens: tokens, adminEmail: adminEmail, logger: logger}
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	User        User      `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

var registerSchema = schema.New(
	schema.String("email").Required().MinLen(3).MaxLen(254),
	schema.String("password").Required().MinLen(8).MaxLen(72),
	schema.String("name").Required().MinLen(1).MaxLen(100),
)

type registerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates an account and signs the user in. An already registered
// email is a Conflict.
func (s *Service) Register(ctx context.Context, raw any) (*AuthResult, error) {
	in, err := schema.ParseCtx(ctx, registerSchema, raw, func(ctx context.Context, in registerInput) error {
		if !strings.Contains(in.Email, "@") {
			return apperr.Validation("invalid input", []apperr.FieldError{
				{Field: "email", Message: "must be a valid email address"},
			})
		}
		existing, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
		if err != nil {
			return apperr.Internal("find user", err)
		}
		if existing != nil {
			return apperr.Conflict("email already registered")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	email := normalizeEmail(in.Email)
	role := authz.RoleBuyer
	if s.adminEmail != "" && email == normalizeEmail(s.adminEmail) {
		role = authz.RoleAdmin
	}

	u := User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         in.Name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperr.Internal("create user", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	return s.signIn(u)
}

var loginSchema = schema.New(
	schema.String("email").Required(),
	schema.String("password").Required(),
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a fresh token. Unknown email and
// wrong password are indistinguishable.
func (s *Service) Login(ctx context.Context, raw any) (*AuthResult, error) {
	in, err := schema.Parse[loginInput](loginSchema, raw)
	if err != nil {
		return nil, err
	}

	u, err := s.users.FindByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, apperr.Internal("find user", err)
	}
	if u == nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	return s.signIn(*u)
}

func (s *Service) signIn(u User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, apperr.Internal("issue token", err)
	}
	return &AuthResult{User: u, AccessToken: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
