// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"dayflow/internal/delivery/api/response"
	deliverycontext "dayflow/internal/delivery/context"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type signupRequest struct {
	EmployeeID string      `json:"employeeId" validate:"required"`
	Email      string      `json:"email" validate:"required"`
	Password   string      `json:"password" validate:"required"`
	Role       entity.Role `json:"role" validate:"required,role"`
}

type loginRequest struct {
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     entity.Role `json:"role" validate:"required"`
}

type signupResponse struct {
	Success bool `json:"success"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	Role    entity.Role `json:"role"`
}

// AuthHandler serves signup and login.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Signup handles account registration.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		h.log(c).Info("Invalid signup body", slog.Any("error", err))

		return domainerrors.ErrValidationFailed.WrapMessage("bind signup request")
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrValidationFailed.WrapMessage(err.Error())
	}

	err := h.uc.Signup(c.Request().Context(), &usecase.SignupInput{
		EmployeeID: req.EmployeeID,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, signupResponse{Success: true})
}

// Login handles credential verification and returns a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		h.log(c).Info("Invalid login body", slog.Any("error", err))

		return domainerrors.ErrInvalidCredentials.WrapMessage("bind login request")
	}
	if err := c.Validate(&req); err != nil {
		return domainerrors.ErrInvalidCredentials.WrapMessage(err.Error())
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{
		Success: true,
		Token:   output.Token,
		Role:    output.Role,
	})
}

func (h *AuthHandler) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)
}
