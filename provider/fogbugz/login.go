package fogbugz

import (
	"context"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	auth "github.com/goliatone/go-auth-fogbugz"
)

// DomainSeparator splits a directory login such as CORP\jdoe.
const DomainSeparator = `\`

var emailPattern = regexp.MustCompile(`^[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~.-]+@[a-z0-9](?:[a-z0-9-]*[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)+$`)

// LoginLookup is the local side of a login attempt.
type LoginLookup struct {
	// Login is the lower-cased email or directory name used locally.
	Login string
	// RemoteLogin keeps the original case for the FogBugz logon, without
	// the domain part of a directory login.
	RemoteLogin string
	EmailLogin  bool
	// Account is nil when no local account matches.
	Account *auth.Account
}

// Found reports whether a local account matched.
func (l LoginLookup) Found() bool {
	return l.Account != nil
}

// IsEmailLogin reports whether raw looks like an email address.
func IsEmailLogin(raw string) bool {
	login := strings.ToLower(strings.TrimSpace(raw))
	if login == "" {
		return false
	}
	return validation.Validate(login, validation.Match(emailPattern)) == nil
}

// ParseLogin classifies raw without touching the store. Login is empty for
// blank input and for a directory login with nothing after the domain.
func ParseLogin(raw string) LoginLookup {
	remote := strings.TrimSpace(raw)
	lookup := LoginLookup{
		Login:       strings.ToLower(remote),
		RemoteLogin: remote,
	}

	if IsEmailLogin(lookup.Login) {
		lookup.EmailLogin = true
		return lookup
	}

	if i := strings.LastIndex(remote, DomainSeparator); i >= 0 {
		lookup.RemoteLogin = strings.TrimSpace(remote[i+len(DomainSeparator):])
		lookup.Login = strings.ToLower(lookup.RemoteLogin)
	}

	return lookup
}

// ResolveLogin classifies raw and looks up the matching local account. A
// missing account is not an error, any other store failure is returned as
// ErrStore. An empty login never reaches the store.
func ResolveLogin(ctx context.Context, accounts auth.AccountStore, raw string) (LoginLookup, error) {
	lookup := ParseLogin(raw)
	if lookup.Login == "" {
		return lookup, nil
	}

	var (
		account *auth.Account
		err     error
	)

	if lookup.EmailLogin {
		account, err = accounts.FindByEmail(ctx, lookup.Login)
	} else {
		account, err = accounts.FindByLoginName(ctx, lookup.Login)
	}

	if err != nil {
		if auth.IsNotFound(err) {
			return lookup, nil
		}
		return lookup, wrapError(ErrStore, err, map[string]any{
			"operation": "lookup_account",
			"login":     lookup.Login,
		})
	}

	lookup.Account = account
	return lookup, nil
}
