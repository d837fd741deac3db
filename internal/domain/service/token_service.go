package service

import (
	"time"

	"dayflow/internal/domain/entity"

	"github.com/google/uuid"
)

// Claims is what a verified session token asserts about its bearer.
type Claims struct {
	AccountID uuid.UUID
	Role      entity.Role
	ExpiresAt time.Time
}

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	// IssueToken signs a token for the account that expires after the configured TTL.
	IssueToken(accountID uuid.UUID, role entity.Role) (string, error)

	// VerifyToken checks signature and expiry. Every failure is reported as
	// errors.ErrUnauthorized; the wrapped message carries the reason for logs.
	VerifyToken(token string) (*Claims, error)
}
