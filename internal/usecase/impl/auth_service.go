// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"

	deliverycontext "dayflow/internal/delivery/context"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/repository"
	"dayflow/internal/domain/service"
	"dayflow/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// timingPassword is hashed once and compared against when a login names no
// account, so unknown emails cost the same bcrypt work as wrong passwords.
const timingPassword = "dayflow-no-such-account"

// authService implements the AuthUsecase interface.
type authService struct {
	accountRepo  repository.AccountRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	logger       *slog.Logger

	timingOnce sync.Once
	timingHash string
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	AccountRepo  repository.AccountRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		accountRepo:  params.AccountRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup creates an account. Storage is not touched when a field is missing.
func (srv *authService) Signup(ctx context.Context, input *usecase.SignupInput) error {
	if err := validateSignup(input); err != nil {
		srv.log(ctx).Info("Signup rejected", slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Starting signup", slog.String("email", input.Email), slog.Any("role", input.Role))

	_, err := srv.accountRepo.FindByEmail(ctx, input.Email)
	if err == nil {
		srv.log(ctx).Info("Signup rejected, account exists", slog.String("email", input.Email))

		return domainerrors.ErrAccountAlreadyExists.WrapMessage("signup failed")
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Error("Failed to look up account during signup", slog.String("email", input.Email), slog.Any("error", err))

		return errors.Wrap(err, "failed to look up account during signup")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return srv.hashFailure(ctx, err)
	}

	account := &entity.Account{
		EmployeeID:   input.EmployeeID,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         input.Role,
	}

	// The lookup above is only a fast path; Create is the atomic guard
	// against a concurrent signup for the same email.
	if err := srv.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domainerrors.ErrAccountAlreadyExists) {
			srv.log(ctx).Info("Signup lost race for email", slog.String("email", input.Email))
		} else {
			srv.log(ctx).Error("Failed to create account", slog.String("email", input.Email), slog.Any("error", err))
		}

		return errors.Wrap(err, "failed to create account during signup")
	}

	srv.log(ctx).Info("Signup completed", slog.Any("accountID", account.ID), slog.Any("role", account.Role))

	return nil
}

// Login verifies credentials and issues a session token. Unknown email,
// wrong role and wrong password all yield ErrInvalidCredentials.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	if input == nil || input.Email == "" || input.Password == "" || input.Role == "" {
		srv.log(ctx).Info("Login rejected, missing field")

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("missing login field")
	}

	srv.log(ctx).Debug("Starting login", slog.String("email", input.Email), slog.Any("role", input.Role))

	account, err := srv.accountRepo.FindByEmailAndRole(ctx, input.Email, input.Role)
	if errors.Is(err, repository.ErrAccountNotFound) {
		srv.equalizeTiming(input.Password)
		srv.log(ctx).Info("Login failed, no matching account", slog.String("email", input.Email), slog.Any("role", input.Role))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("no account for email and role")
	}
	if err != nil {
		srv.log(ctx).Error("Failed to look up account during login", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to look up account during login")
	}

	if !srv.hasher.Check(input.Password, account.PasswordHash) {
		srv.log(ctx).Info("Login failed, password mismatch", slog.Any("accountID", account.ID))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	token, err := srv.tokenService.IssueToken(account.ID, account.Role)
	if err != nil {
		srv.log(ctx).Error("Failed to issue token", slog.Any("accountID", account.ID), slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrInternalError, err.Error())
	}

	srv.log(ctx).Debug("Login succeeded", slog.Any("accountID", account.ID))

	return &usecase.LoginOutput{
		Token: token,
		Role:  account.Role,
	}, nil
}

func validateSignup(input *usecase.SignupInput) error {
	if input == nil || input.EmployeeID == "" || input.Email == "" || input.Password == "" || input.Role == "" {
		return domainerrors.ErrValidationFailed.WrapMessage("missing signup field")
	}
	if !input.Role.IsValid() {
		return domainerrors.ErrValidationFailed.WrapMessage("unknown role")
	}

	return nil
}

func (srv *authService) hashFailure(ctx context.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		srv.log(ctx).Info("Signup rejected by hasher", slog.Any("error", err))

		return errors.WithStack(err)
	}

	srv.log(ctx).Error("Failed to hash password during signup", slog.Any("error", err))

	return errors.Wrap(domainerrors.ErrInternalError, err.Error())
}

// equalizeTiming spends one hash comparison on a login that matched no account.
func (srv *authService) equalizeTiming(password string) {
	srv.timingOnce.Do(func() {
		hash, err := srv.hasher.Hash(timingPassword)
		if err == nil {
			srv.timingHash = hash
		}
	})

	if srv.timingHash != "" {
		srv.hasher.Check(password, srv.timingHash)
	}
}
