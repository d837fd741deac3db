// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"dayflow/internal/domain/entity"
)

// --- Input DTOs ---

// SignupInput defines the data required to create an account.
type SignupInput struct {
	EmployeeID string
	Email      string
	Password   string
	Role       entity.Role
}

// LoginInput defines the data required to log in. Role is part of the lookup key.
type LoginInput struct {
	Email    string
	Password string
	Role     entity.Role
}

// --- Output DTOs ---

// LoginOutput carries the issued session token.
type LoginOutput struct {
	Token string
	Role  entity.Role
}

// AuthUsecase defines the credential operations the delivery layer depends on.
type AuthUsecase interface {
	Signup(ctx context.Context, input *SignupInput) error
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
}
