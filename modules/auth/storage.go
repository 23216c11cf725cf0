package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserDirectory is the account lookup and creation contract the auth
// services depend on. Implementations report absence with ErrUserNotFound
// and uniqueness conflicts with ErrUserAlreadyExists; any other error is
// treated as infrastructure failure.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, user *User) error
}
