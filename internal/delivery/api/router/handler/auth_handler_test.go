package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dayflow/internal/delivery/api/middleware"
	"dayflow/internal/delivery/api/validator"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	mockUsecase "dayflow/internal/mocks/usecase"
	"dayflow/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newHandlerTestEcho(t *testing.T) (*echo.Echo, *mockUsecase.MockAuthUsecase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := mockUsecase.NewMockAuthUsecase(t)
	h := NewAuthHandler(uc, logger)

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.POST("/auth/signup", h.Signup)
	e.POST("/auth/login", h.Login)

	return e, uc
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e, uc := newHandlerTestEcho(t)

	uc.EXPECT().
		Signup(mock.Anything, &usecase.SignupInput{
			EmployeeID: "E1",
			Email:      "a@x.com",
			Password:   "pw1",
			Role:       entity.RoleEmployee,
		}).
		Return(nil)

	rec := postJSON(e, "/auth/signup", `{"employeeId":"E1","email":"a@x.com","password":"pw1","role":"employee"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true}, decodeBody(t, rec))
}

func TestAuthHandler_Signup_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing employee id", body: `{"email":"a@x.com","password":"pw1","role":"employee"}`},
		{name: "empty password", body: `{"employeeId":"E1","email":"a@x.com","password":"","role":"employee"}`},
		{name: "unknown role", body: `{"employeeId":"E1","email":"a@x.com","password":"pw1","role":"manager"}`},
		{name: "malformed json", body: `{"employeeId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newHandlerTestEcho(t)

			rec := postJSON(e, "/auth/signup", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, "All fields required", body["message"])
		})
	}
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	e, uc := newHandlerTestEcho(t)

	uc.EXPECT().
		Signup(mock.Anything, mock.AnythingOfType("*usecase.SignupInput")).
		Return(domainerrors.ErrAccountAlreadyExists.WrapMessage("signup failed"))

	rec := postJSON(e, "/auth/signup", `{"employeeId":"E1","email":"a@x.com","password":"pw1","role":"admin"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Account already exists", decodeBody(t, rec)["message"])
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e, uc := newHandlerTestEcho(t)

	uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "a@x.com", Password: "pw1", Role: entity.RoleAdmin}).
		Return(&usecase.LoginOutput{Token: "signed", Role: entity.RoleAdmin}, nil)

	rec := postJSON(e, "/auth/login", `{"email":"a@x.com","password":"pw1","role":"admin"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "token": "signed", "role": "admin"}, decodeBody(t, rec))
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	t.Run("missing field", func(t *testing.T) {
		e, _ := newHandlerTestEcho(t)

		rec := postJSON(e, "/auth/login", `{"email":"a@x.com","role":"admin"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
	})

	t.Run("bad credentials", func(t *testing.T) {
		e, uc := newHandlerTestEcho(t)
		uc.EXPECT().
			Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
			Return(nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch"))

		rec := postJSON(e, "/auth/login", `{"email":"a@x.com","password":"nope","role":"admin"}`)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Invalid credentials", body["message"])
		assert.NotContains(t, rec.Body.String(), "mismatch")
	})

	t.Run("storage failure", func(t *testing.T) {
		e, uc := newHandlerTestEcho(t)
		uc.EXPECT().
			Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
			Return(nil, domainerrors.NewDatabaseExecuteError(assert.AnError, "find account"))

		rec := postJSON(e, "/auth/login", `{"email":"a@x.com","password":"pw1","role":"employee"}`)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Server error", decodeBody(t, rec)["message"])
	})
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	e.GET("/health", HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": true, "status": "ok"}, decodeBody(t, rec))
}
