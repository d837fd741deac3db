package context

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dayflow/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGetRequestID(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	generated := GetRequestID(c)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	SetRequestID(c, "req-1")
	assert.Equal(t, "req-1", GetRequestID(c))
}

func TestAccountContext(t *testing.T) {
	ctx := context.Background()

	_, _, ok := GetAccountFromContext(ctx)
	assert.False(t, ok)

	accountID := uuid.New()
	ctx = WithAccount(ctx, accountID, entity.RoleAdmin)

	gotID, gotRole, ok := GetAccountFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, accountID, gotID)
	assert.Equal(t, entity.RoleAdmin, gotRole)
}

func TestGetLoggerOrDefault(t *testing.T) {
	assert.Nil(t, GetLogger(context.Background()))
	assert.Nil(t, GetLoggerOrDefault(context.Background(), nil))
}
