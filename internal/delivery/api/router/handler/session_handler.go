package handler

import (
	"net/http"

	"dayflow/internal/delivery/api/middleware"
	"dayflow/internal/delivery/api/response"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type sessionResponse struct {
	Success   bool        `json:"success"`
	AccountID uuid.UUID   `json:"accountId"`
	Role      entity.Role `json:"role"`
}

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// SessionHandler reports the identity carried by a verified token.
type SessionHandler struct{}

// NewSessionHandler creates a new SessionHandler instance
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Current returns the account ID and role from the verified token.
// It must be mounted behind AuthMiddleware.Authenticate.
func (h *SessionHandler) Current(c echo.Context) error {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		return domainerrors.ErrUnauthorized.WrapMessage("account missing from context")
	}
	role, ok := middleware.GetRole(c)
	if !ok {
		return domainerrors.ErrUnauthorized.WrapMessage("role missing from context")
	}

	return response.Success(c, http.StatusOK, sessionResponse{
		Success:   true,
		AccountID: accountID,
		Role:      role,
	})
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, healthResponse{Success: true, Status: "ok"})
}
