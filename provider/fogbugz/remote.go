package fogbugz

import (
	"context"
	"time"

	auth "github.com/goliatone/go-auth-fogbugz"
)

// Remote operation names used in logs and metrics.
const (
	OperationOpen          = "open"
	OperationClearToken    = "clear_token"
	OperationLogon         = "logon"
	OperationFetchIdentity = "fetch_identity"
	OperationLogoff        = "logoff"
)

// RemoteIdentity is the FogBugz person behind a successful logon.
type RemoteIdentity struct {
	IxPerson      int
	FullName      string
	Email         string
	Community     bool
	Administrator bool
}

// Role classifies the person.
func (r RemoteIdentity) Role() auth.RemoteRole {
	return auth.RemoteRoleFromFlags(r.Community, r.Administrator)
}

// RemoteClient is a session with a FogBugz server. Implementations should
// report unreachable servers with ErrRemoteConnection and refused
// credentials with ErrRemoteLogon; other errors are classified by the
// operation that failed.
type RemoteClient interface {
	// Token returns the session token, empty before logon.
	Token() string
	SetToken(token string)
	Logon(ctx context.Context, username, password string) error
	Logoff(ctx context.Context) error
	FetchIdentity(ctx context.Context) (RemoteIdentity, error)
}

// RemoteClientFactory opens a RemoteClient for endpoint.
type RemoteClientFactory func(ctx context.Context, endpoint string) (RemoteClient, error)

// RemoteClientFunc adapts a constructor that does not take a context.
func RemoteClientFunc(fn func(endpoint string) (RemoteClient, error)) RemoteClientFactory {
	return func(_ context.Context, endpoint string) (RemoteClient, error) {
		return fn(endpoint)
	}
}

type session struct {
	endpoint string
	factory  RemoteClientFactory
	client   RemoteClient
	logger   auth.Logger
	metrics  auth.Metrics
}

func openSession(ctx context.Context, factory RemoteClientFactory, endpoint string, logger auth.Logger, metrics auth.Metrics) (*session, error) {
	s := &session{
		endpoint: endpoint,
		factory:  factory,
		logger:   logger,
		metrics:  auth.NormalizeMetrics(metrics),
	}

	client, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}

	s.client = client
	return s, nil
}

func (s *session) dial(ctx context.Context) (RemoteClient, error) {
	if s.factory == nil {
		return nil, newError(ErrRemoteConnection, "no fogbugz client factory configured", map[string]any{
			"endpoint": s.endpoint,
		})
	}

	var client RemoteClient
	err := s.observe(OperationOpen, func() error {
		var err error
		client, err = s.factory(ctx, s.endpoint)
		return err
	})
	if err == nil && client == nil {
		err = newError(ErrRemoteConnection, "fogbugz client factory returned no client", nil)
	}
	if err != nil {
		return nil, wrapError(ErrRemoteConnection, err, map[string]any{
			"endpoint":  s.endpoint,
			"operation": OperationOpen,
		})
	}

	return client, nil
}

// clearStaleToken logs off the session identified by token. Failures
// replace the client with a fresh one and never abort the attempt.
func (s *session) clearStaleToken(ctx context.Context, token string) {
	if token == "" {
		return
	}

	prior := s.client.Token()
	s.client.SetToken(token)

	err := s.observe(OperationClearToken, func() error {
		return s.client.Logoff(ctx)
	})
	if err == nil {
		s.client.SetToken(prior)
		return
	}

	s.logger.Warn("failed to clear stale fogbugz token, reopening session",
		"endpoint", s.endpoint,
		"error", err,
	)

	fresh, dialErr := s.dial(ctx)
	if dialErr != nil {
		s.logger.Warn("failed to reopen fogbugz session", "endpoint", s.endpoint, "error", dialErr)
		s.client.SetToken(prior)
		return
	}

	s.client = fresh
}

// logon authenticates the session and returns the new token.
func (s *session) logon(ctx context.Context, username, password string) (string, error) {
	err := s.observe(OperationLogon, func() error {
		return s.client.Logon(ctx, username, password)
	})
	if err != nil {
		sentinel := ErrRemoteLogon
		if hasTextCode(err, TextCodeConnection) {
			sentinel = ErrRemoteConnection
		}
		return "", wrapError(sentinel, err, map[string]any{
			"endpoint":  s.endpoint,
			"operation": OperationLogon,
		})
	}

	return s.client.Token(), nil
}

func (s *session) fetchIdentity(ctx context.Context) (RemoteIdentity, error) {
	var identity RemoteIdentity
	err := s.observe(OperationFetchIdentity, func() error {
		var err error
		identity, err = s.client.FetchIdentity(ctx)
		return err
	})
	if err != nil {
		sentinel := ErrRemoteConnection
		if hasTextCode(err, TextCodeLogon) {
			sentinel = ErrRemoteLogon
		}
		return RemoteIdentity{}, wrapError(sentinel, err, map[string]any{
			"endpoint":  s.endpoint,
			"operation": OperationFetchIdentity,
		})
	}

	return identity, nil
}

// logoff ends the session. Failures are only logged.
func (s *session) logoff(ctx context.Context) {
	err := s.observe(OperationLogoff, func() error {
		return s.client.Logoff(ctx)
	})
	if err != nil {
		s.logger.Warn("fogbugz logoff failed", "endpoint", s.endpoint, "error", err)
	}
}

func (s *session) observe(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveRemoteCall(operation, time.Since(start), err)
	return err
}
