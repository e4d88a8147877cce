package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func seedAccount(t *testing.T, accounts Accounts, username, email string) *Account {
	t.Helper()

	account, err := accounts.Register(context.Background(), NewAccount(username, email))
	require.NoError(t, err)
	require.NotNil(t, account)

	return account
}

type logCall struct {
	level   string
	message string
	args    []any
}

type captureLogger struct {
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

type loggerProviderSpy struct {
	byName map[string]Logger
	names  []string
}

func (p *loggerProviderSpy) GetLogger(name string) Logger {
	p.names = append(p.names, name)
	return p.byName[name]
}
