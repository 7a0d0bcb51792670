// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"drawdown-console/internal/models"
)

// AccountStore persists local accounts and the active session.
type AccountStore interface {
	// CreateUser inserts a new account. It returns errors.ErrAccountExists
	// when the account id is taken.
	CreateUser(ctx context.Context, rec *UserRecord) error
	// GetUser returns the account or nil when it does not exist.
	GetUser(ctx context.Context, accountID string) (*UserRecord, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Active session
	SetActiveUser(ctx context.Context, accountID string) error
	GetActiveUser(ctx context.Context) (string, error)
	ClearActiveUser(ctx context.Context) error

	Close() error
}

// UserRecord is an account row with its credential material.
type UserRecord struct {
	User         models.User
	PasswordHash []byte
	Salt         []byte
}

// Setting keys.
const (
	KeyActiveUser = "drawdown_active_user"
)
