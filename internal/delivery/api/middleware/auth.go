package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "dayflow/internal/delivery/context"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const (
	contextKeyAccountID = "accountId"
	contextKeyRole      = "role"

	bearerScheme = "bearer"
)

// AuthMiddleware verifies session tokens and enforces roles.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate validates the bearer token and attaches the account to the request.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		tokenString, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return domainerrors.ErrUnauthorized.WrapMessage("missing bearer token")
		}

		claims, err := m.tokenSvc.VerifyToken(tokenString)
		if err != nil {
			deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).
				Debug("Rejected session token", slog.Any("error", err))

			return errors.WithStack(err)
		}

		c.Set(contextKeyAccountID, claims.AccountID)
		c.Set(contextKeyRole, claims.Role)

		ctx := deliverycontext.WithAccount(c.Request().Context(), claims.AccountID, claims.Role)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// RequireRole rejects authenticated callers without the given role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := GetRole(c)
			if !ok {
				return domainerrors.ErrUnauthorized.WrapMessage("role missing from context")
			}
			if role != requiredRole {
				return domainerrors.ErrForbidden.WrapMessage("require role " + requiredRole.String())
			}

			return next(c)
		}
	}
}

// GetAccountID returns the account ID set by Authenticate.
func GetAccountID(c echo.Context) (uuid.UUID, bool) {
	accountID, ok := c.Get(contextKeyAccountID).(uuid.UUID)

	return accountID, ok
}

// GetRole returns the role set by Authenticate.
func GetRole(c echo.Context) (entity.Role, bool) {
	role, ok := c.Get(contextKeyRole).(entity.Role)

	return role, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)

	return token, token != ""
}
