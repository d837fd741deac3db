package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	deliverycontext "dayflow/internal/delivery/context"
	"dayflow/internal/domain/entity"
	domainerrors "dayflow/internal/domain/errors"
	"dayflow/internal/domain/service"
	mockService "dayflow/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type errorBody struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	RequestID string `json:"requestId"`
}

func newTestEcho(tokenSvc service.TokenService, requiredRole entity.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = NewErrorMiddleware(discardLogger()).HandleHTTPError

	auth := NewAuthMiddleware(tokenSvc, discardLogger())
	handler := func(c echo.Context) error {
		accountID, ok := GetAccountID(c)
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		ctxID, ctxRole, ok := deliverycontext.GetAccountFromContext(c.Request().Context())
		if !ok || ctxID != accountID {
			return c.NoContent(http.StatusTeapot)
		}

		return c.JSON(http.StatusOK, map[string]any{"accountId": accountID, "role": ctxRole})
	}

	e.GET("/protected", handler, auth.Authenticate)
	if requiredRole != "" {
		e.GET("/restricted", handler, auth.Authenticate, auth.RequireRole(requiredRole))
	}

	return e
}

func doGet(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)
	accountID := uuid.New()

	tokenSvc.EXPECT().
		VerifyToken("good-token").
		Return(&service.Claims{AccountID: accountID, Role: entity.RoleEmployee}, nil)

	rec := doGet(newTestEcho(tokenSvc, ""), "/protected", "Bearer good-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), accountID.String())
	assert.Contains(t, rec.Body.String(), `"role":"employee"`)
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
	}{
		{name: "missing header", authorization: ""},
		{name: "wrong scheme", authorization: "Basic dXNlcjpwYXNz"},
		{name: "empty bearer", authorization: "Bearer   "},
		{name: "no separator", authorization: "Bearertoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The verifier must not be reached.
			tokenSvc := mockService.NewMockTokenService(t)

			rec := doGet(newTestEcho(tokenSvc, ""), "/protected", tt.authorization)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decodeError(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, "Invalid token", body.Message)
			assert.Equal(t, "INVALID_TOKEN", body.Code)
		})
	}
}

func TestAuthMiddleware_Authenticate_VerifyFailure(t *testing.T) {
	tokenSvc := mockService.NewMockTokenService(t)

	tokenSvc.EXPECT().
		VerifyToken("expired").
		Return(nil, domainerrors.ErrUnauthorized.WrapMessage("token has invalid claims: token is expired"))

	rec := doGet(newTestEcho(tokenSvc, ""), "/protected", "bearer expired")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Invalid token", body.Message)
	assert.NotContains(t, rec.Body.String(), "expired")
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     entity.Role
		wantCode int
	}{
		{name: "admin allowed", role: entity.RoleAdmin, wantCode: http.StatusOK},
		{name: "employee forbidden", role: entity.RoleEmployee, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenSvc := mockService.NewMockTokenService(t)
			tokenSvc.EXPECT().
				VerifyToken("token").
				Return(&service.Claims{AccountID: uuid.New(), Role: tt.role}, nil)

			rec := doGet(newTestEcho(tokenSvc, entity.RoleAdmin), "/restricted", "Bearer token")

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, "Forbidden", decodeError(t, rec).Message)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	token, ok = bearerToken("  BEARER xyz ")
	assert.True(t, ok)
	assert.Equal(t, "xyz", token)

	_, ok = bearerToken("Token xyz")
	assert.False(t, ok)
}
