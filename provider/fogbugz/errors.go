package fogbugz

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidConfiguration = "FOGBUGZ_INVALID_CONFIGURATION"
	TextCodeConnection           = "FOGBUGZ_CONNECTION"
	TextCodeLogon                = "FOGBUGZ_LOGON"
	TextCodePolicy               = "FOGBUGZ_POLICY"
	TextCodeStore                = "FOGBUGZ_STORE"
)

// ErrInvalidConfiguration is fatal and only returned while loading settings.
var ErrInvalidConfiguration = goerrors.New("invalid fogbugz configuration", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidConfiguration).
	WithCode(goerrors.CodeBadRequest)

// ErrRemoteConnection means the FogBugz server could not be reached.
var ErrRemoteConnection = goerrors.New("fogbugz server unreachable", goerrors.CategoryOperation).
	WithTextCode(TextCodeConnection).
	WithCode(goerrors.CodeInternal)

// ErrRemoteLogon means FogBugz refused the credentials.
var ErrRemoteLogon = goerrors.New("fogbugz logon failed", goerrors.CategoryAuth).
	WithTextCode(TextCodeLogon).
	WithCode(goerrors.CodeUnauthorized)

// ErrPolicyRejection means the attempt was declined by a local policy.
var ErrPolicyRejection = goerrors.New("fogbugz login declined by policy", goerrors.CategoryAuth).
	WithTextCode(TextCodePolicy).
	WithCode(goerrors.CodeForbidden)

// ErrStore wraps failures of the account and profile stores.
var ErrStore = goerrors.New("fogbugz directory store failure", goerrors.CategoryInternal).
	WithTextCode(TextCodeStore).
	WithCode(goerrors.CodeInternal)

// wrapError returns a copy of sentinel carrying err as its source.
func wrapError(sentinel *goerrors.Error, err error, metadata map[string]any) error {
	clone := sentinel.Clone()
	if clone == nil {
		clone = sentinel
	}
	if err != nil {
		clone.Source = err
	}
	if len(metadata) > 0 {
		clone.WithMetadata(metadata)
	}
	return clone
}

func hasTextCode(err error, code string) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.TextCode == code
}

func newError(sentinel *goerrors.Error, message string, metadata map[string]any) error {
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code)
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}
