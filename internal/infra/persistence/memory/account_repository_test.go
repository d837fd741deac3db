package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndFind(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	account := &entity.Account{EmployeeID: "EMP010", Email: "a@x.com", PasswordHash: "hash", Role: entity.RoleEmployee}
	require.NoError(t, repo.Create(ctx, account))
	assert.NotEqual(t, uuid.Nil, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, *account, *found)

	found, err = repo.FindByEmailAndRole(ctx, "a@x.com", entity.RoleEmployee)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)

	_, err = repo.FindByEmailAndRole(ctx, "a@x.com", entity.RoleAdmin)
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)

	_, err = repo.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}

func TestAccountRepository_ReturnedAccountIsACopy(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Account{Email: "a@x.com", PasswordHash: "hash", Role: entity.RoleEmployee}))

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	found.PasswordHash = "changed"

	again, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", again.PasswordHash)
}

func TestAccountRepository_DuplicateLeavesStoreUnchanged(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	first := &entity.Account{EmployeeID: "EMP010", Email: "a@x.com", PasswordHash: "hash-1", Role: entity.RoleEmployee}
	require.NoError(t, repo.Create(ctx, first))

	err := repo.Create(ctx, &entity.Account{EmployeeID: "EMP011", Email: "a@x.com", PasswordHash: "hash-2", Role: entity.RoleAdmin})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, *first, *found)
}

func TestAccountRepository_ConcurrentSignups(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	const workers = 64
	var (
		wg        sync.WaitGroup
		created   atomic.Int32
		conflicts atomic.Int32
		distinct  atomic.Int32
	)

	for i := range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			err := repo.Create(ctx, &entity.Account{Email: "same@x.com", PasswordHash: "hash", Role: entity.RoleEmployee})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, domainerrors.ErrAccountAlreadyExists):
				conflicts.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			email := fmt.Sprintf("user%d@x.com", i)
			if err := repo.Create(ctx, &entity.Account{Email: email, PasswordHash: "hash", Role: entity.RoleEmployee}); err == nil {
				distinct.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, workers-1, conflicts.Load())
	assert.EqualValues(t, workers, distinct.Load())
}

func TestAccountRepository_CancelledContext(t *testing.T) {
	repo := NewAccountRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Create(ctx, &entity.Account{Email: "a@x.com", Role: entity.RoleEmployee})
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "STORAGE_ERROR", appErr.ErrorCode())

	_, err = repo.FindByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
