package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail performs an exact match on the stored email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// CreateUser inserts a new account. Returns ErrAlreadyExists when the
	// email uniqueness constraint is violated.
	CreateUser(ctx context.Context, user *User) error
}
