// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"dayflow/internal/domain/entity"
)

// ErrAccountNotFound is returned by lookups that match no account.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository is the credential store.
type AccountRepository interface {
	// FindByEmail retrieves the account registered under email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// FindByEmailAndRole retrieves the account registered under email only if it holds role.
	FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.Account, error)

	// Create persists a new account and fills in its ID and CreatedAt.
	// It must fail with errors.ErrAccountAlreadyExists, atomically, when the
	// email is already registered, including under concurrent calls.
	Create(ctx context.Context, account *entity.Account) error
}
