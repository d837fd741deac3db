package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"dayflow/config"
	deliverycontext "dayflow/internal/delivery/context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newTestGormLogger(buf *bytes.Buffer, debug bool) *gormSlogLogger {
	base := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return newGormSlogLogger(base, cfg).(*gormSlogLogger)
}

func TestGormSlogLogger_ParamsFilterDropsValues(t *testing.T) {
	l := &gormSlogLogger{}

	sql, params := l.ParamsFilter(context.Background(), "INSERT INTO accounts (password_hash) VALUES (?)", "$2a$10$secret")
	assert.Equal(t, "INSERT INTO accounts (password_hash) VALUES (?)", sql)
	assert.Nil(t, params)
}

func TestGormSlogLogger_TraceLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newTestGormLogger(&buf, true)

	sqlFn := func() (string, int64) { return "SELECT * FROM accounts", 1 }

	l.Trace(context.Background(), time.Now(), sqlFn, nil)
	assert.Contains(t, buf.String(), `"msg":"credential store query"`)

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	assert.Contains(t, buf.String(), `"msg":"credential store slow query"`)

	buf.Reset()
	l.Trace(context.Background(), time.Now(), sqlFn, assert.AnError)
	assert.Contains(t, buf.String(), `"msg":"credential store query failed"`)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)

	buf.Reset()
	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_DuplicateEmailIsAConflictNotAFailure(t *testing.T) {
	insertFn := func() (string, int64) { return "INSERT INTO accounts (email) VALUES (?)", 0 }

	tests := map[string]error{
		"translated": gorm.ErrDuplicatedKey,
		"pg driver":  errors.WithStack(&pgconn.PgError{Code: pgUniqueViolation}),
	}

	for name, err := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newTestGormLogger(&buf, false)

			l.Trace(context.Background(), time.Now(), insertFn, err)

			out := buf.String()
			assert.Contains(t, out, `"msg":"credential store conflict"`)
			assert.Contains(t, out, `"level":"INFO"`)
			assert.NotContains(t, out, `"level":"ERROR"`)
		})
	}
}

func TestGormSlogLogger_UsesRequestScopedLogger(t *testing.T) {
	var baseBuf, reqBuf bytes.Buffer
	l := newTestGormLogger(&baseBuf, false)

	reqLogger := slog.New(slog.NewJSONHandler(&reqBuf, nil)).With(slog.String("request_id", "req-7"))
	ctx := deliverycontext.WithLogger(context.Background(), reqLogger)

	l.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 0 }, assert.AnError)

	assert.Empty(t, baseBuf.String())
	assert.Contains(t, reqBuf.String(), `"request_id":"req-7"`)
	assert.Contains(t, reqBuf.String(), `"msg":"credential store query failed"`)
}

func TestGormSlogLogger_WarnLevelSkipsRoutineQueries(t *testing.T) {
	var buf bytes.Buffer
	l := newTestGormLogger(&buf, false)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	l.Info(context.Background(), "migrated %d tables", 1)
	assert.Empty(t, buf.String())

	l.Warn(context.Background(), "pool %s", "exhausted")
	assert.Contains(t, buf.String(), `"message":"pool exhausted"`)
}
