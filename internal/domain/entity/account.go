// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the persisted credential record. Email is the lookup key and is
// unique across all accounts; an account is never updated after creation.
type Account struct {
	ID           uuid.UUID // Server-assigned identifier, embedded in session tokens.
	EmployeeID   string    // Caller-supplied; not checked for uniqueness.
	Email        string
	PasswordHash string // bcrypt digest, never the raw password.
	Role         Role
	CreatedAt    time.Time
}
