// Package memory provides an in-process credential store for local runs and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/repository"

	"github.com/google/uuid"
)

// accountRepository keeps accounts in a map keyed by email. The existence
// check and the insert in Create run under one write lock.
type accountRepository struct {
	mu       sync.RWMutex
	accounts map[string]entity.Account
	now      func() time.Time
}

// NewAccountRepository returns an empty in-memory credential store.
func NewAccountRepository() repository.AccountRepository {
	return &accountRepository{
		accounts: make(map[string]entity.Account),
		now:      time.Now,
	}
}

func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find account by email")
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.accounts[email]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return &account, nil
}

func (repo *accountRepository) FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.Account, error) {
	account, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account.Role != role {
		return nil, repository.ErrAccountNotFound
	}

	return account, nil
}

func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, exists := repo.accounts[account.Email]; exists {
		return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.CreatedAt = repo.now()
	repo.accounts[account.Email] = *account

	return nil
}
