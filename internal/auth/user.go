package auth

import (
	"context"
	"time"

	"github.com/example/ec-shop-core/internal/authz"
)

// User is a registered account. PasswordHash never leaves this package.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         authz.Role `json:"role"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserRepository is the storage contact point for accounts. Lookups return
// (nil, nil) when no user matches.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u User) error
}
