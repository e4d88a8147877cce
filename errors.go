package auth

import (
	"database/sql"
	stderrors "errors"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

const (
	TextCodeIdentityNotFound     = "IDENTITY_NOT_FOUND"
	TextCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	TextCodeInvalidProfile       = "INVALID_PROFILE"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrAuthenticationFailed is returned by providers that decline a login.
// Callers get the same error for every cause, details go to the logs.
var ErrAuthenticationFailed = errors.New("authentication failed", errors.CategoryAuth).
	WithTextCode(TextCodeAuthenticationFailed).
	WithCode(errors.CodeUnauthorized)

// ErrInvalidProfile is returned when a profile fails validation before a write.
var ErrInvalidProfile = errors.New("invalid remote profile", errors.CategoryValidation).
	WithTextCode(TextCodeInvalidProfile).
	WithCode(errors.CodeBadRequest)

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) || stderrors.Is(err, sql.ErrNoRows)
}
