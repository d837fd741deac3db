// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/repository"
	"dayflow/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// accountRepository implements repository.AccountRepository using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// primary pins reads to the primary so a login right after signup never
// misses the account on a lagging replica.
func (repo *accountRepository) primary(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Clauses(dbresolver.Write)
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.primary(ctx).
		Where("email = ?", email).
		Take(&accountM).Error

	return repo.toDomainResult(&accountM, err, "failed to find account by email")
}

// FindByEmailAndRole retrieves a single account by email, matching only if it holds role.
func (repo *accountRepository) FindByEmailAndRole(ctx context.Context, email string, role entity.Role) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.primary(ctx).
		Where("email = ? AND role = ?", email, role.String()).
		Take(&accountM).Error

	return repo.toDomainResult(&accountM, err, "failed to find account by email and role")
}

// Create inserts the account in a single statement; the unique index on
// email makes concurrent duplicates fail instead of racing a prior lookup.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrAccountAlreadyExists.WrapMessage("email already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt

	return nil
}

func (repo *accountRepository) toDomainResult(accountM *model.AccountModel, err error, details string) (*entity.Account, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	return toAccountDomain(accountM), nil
}

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		EmployeeID:   data.EmployeeID,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Role:         entity.Role(data.Role),
		CreatedAt:    data.CreatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		EmployeeID:   data.EmployeeID,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Role:         data.Role.String(),
		CreatedAt:    data.CreatedAt,
	}
}
