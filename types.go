package auth

import (
	"context"

	"github.com/google/uuid"
)

// Logger is the leveled logger used across the package. Arguments after the
// message are key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerProvider returns named loggers, e.g. "auth.fogbugz".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// Identity holds the attributes of an identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// IdentityProvider is the pluggable authentication strategy contract. A
// provider that declines an attempt returns an error so the caller can try
// the next configured mechanism.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// AccountStore is the account side of the local directory.
// Lookups signal a missing account with a record not found error, see
// IsNotFound.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByLoginName(ctx context.Context, name string) (*Account, error)
	Register(ctx context.Context, account *Account) (*Account, error)
	Save(ctx context.Context, account *Account) error
}

// ProfileStore keeps the one-to-one remote profile of an account.
type ProfileStore interface {
	Get(ctx context.Context, accountID uuid.UUID) (*Profile, error)
	Create(ctx context.Context, profile *Profile) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
}
