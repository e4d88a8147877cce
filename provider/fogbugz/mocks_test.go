package fogbugz

import (
	"context"

	auth "github.com/goliatone/go-auth-fogbugz"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) FindByEmail(ctx context.Context, email string) (*auth.Account, error) {
	args := m.Called(ctx, email)
	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountStore) FindByLoginName(ctx context.Context, name string) (*auth.Account, error) {
	args := m.Called(ctx, name)
	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountStore) Register(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	args := m.Called(ctx, account)
	if fn, ok := args.Get(0).(func(context.Context, *auth.Account) *auth.Account); ok {
		return fn(ctx, account), args.Error(1)
	}
	return accountArg(args, 0), args.Error(1)
}

func (m *MockAccountStore) Save(ctx context.Context, account *auth.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func accountArg(args mock.Arguments, i int) *auth.Account {
	if v := args.Get(i); v != nil {
		return v.(*auth.Account)
	}
	return nil
}

type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Get(ctx context.Context, accountID uuid.UUID) (*auth.Profile, error) {
	args := m.Called(ctx, accountID)
	return profileArg(args, 0), args.Error(1)
}

func (m *MockProfileStore) Create(ctx context.Context, profile *auth.Profile) (*auth.Profile, error) {
	args := m.Called(ctx, profile)
	if fn, ok := args.Get(0).(func(context.Context, *auth.Profile) *auth.Profile); ok {
		return fn(ctx, profile), args.Error(1)
	}
	return profileArg(args, 0), args.Error(1)
}

func (m *MockProfileStore) Save(ctx context.Context, profile *auth.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func profileArg(args mock.Arguments, i int) *auth.Profile {
	if v := args.Get(i); v != nil {
		return v.(*auth.Profile)
	}
	return nil
}

func notFound() error {
	return repository.NewRecordNotFound()
}

// fakeRemote scripts a FogBugz session.
type fakeRemote struct {
	token      string
	issueToken string
	identity   RemoteIdentity

	logonErr  error
	logoffErr error
	fetchErr  error

	calls         []string
	logons        []string
	logoffTokens  []string
	setTokenCalls []string
}

func (f *fakeRemote) Token() string {
	return f.token
}

func (f *fakeRemote) SetToken(token string) {
	f.setTokenCalls = append(f.setTokenCalls, token)
	f.token = token
}

func (f *fakeRemote) Logon(_ context.Context, username, _ string) error {
	f.calls = append(f.calls, OperationLogon)
	f.logons = append(f.logons, username)
	if f.logonErr != nil {
		return f.logonErr
	}
	f.token = f.issueToken
	return nil
}

func (f *fakeRemote) Logoff(context.Context) error {
	f.calls = append(f.calls, OperationLogoff)
	f.logoffTokens = append(f.logoffTokens, f.token)
	if f.logoffErr != nil {
		return f.logoffErr
	}
	f.token = ""
	return nil
}

func (f *fakeRemote) FetchIdentity(context.Context) (RemoteIdentity, error) {
	f.calls = append(f.calls, OperationFetchIdentity)
	if f.fetchErr != nil {
		return RemoteIdentity{}, f.fetchErr
	}
	return f.identity, nil
}

func (f *fakeRemote) loggedOff() bool {
	for _, call := range f.calls {
		if call == OperationLogoff {
			return true
		}
	}
	return false
}

// remoteHarness hands out the scripted clients in order.
type remoteHarness struct {
	clients   []*fakeRemote
	openErr   error
	endpoints []string
}

func newRemoteHarness(clients ...*fakeRemote) *remoteHarness {
	return &remoteHarness{clients: clients}
}

func (h *remoteHarness) opens() int {
	return len(h.endpoints)
}

func (h *remoteHarness) factory() RemoteClientFactory {
	return func(_ context.Context, endpoint string) (RemoteClient, error) {
		h.endpoints = append(h.endpoints, endpoint)
		if h.openErr != nil {
			return nil, h.openErr
		}
		i := len(h.endpoints) - 1
		if i >= len(h.clients) {
			return &fakeRemote{}, nil
		}
		return h.clients[i], nil
	}
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

func (l *captureLogger) levels() []string {
	levels := make([]string, 0, len(l.calls))
	for _, call := range l.calls {
		levels = append(levels, call.level)
	}
	return levels
}

type capturingSink struct {
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	c.events = append(c.events, event)
	return nil
}

func (c *capturingSink) types() []auth.ActivityEventType {
	out := make([]auth.ActivityEventType, 0, len(c.events))
	for _, event := range c.events {
		out = append(out, event.EventType)
	}
	return out
}

type staticLoggers map[string]auth.Logger

func (s staticLoggers) GetLogger(name string) auth.Logger {
	return s[name]
}
