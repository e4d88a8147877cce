package fogbugz

import (
	auth "github.com/goliatone/go-auth-fogbugz"
)

// OutcomeKind is the decision taken for an authentication attempt.
type OutcomeKind int

const (
	OutcomeRejected OutcomeKind = iota
	OutcomeAuthenticatedExisting
	OutcomeAuthenticatedNew
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAuthenticatedExisting:
		return "authenticated_existing"
	case OutcomeAuthenticatedNew:
		return "authenticated_new"
	default:
		return "rejected"
	}
}

// RejectReason tells rejections apart in logs and metrics. Callers of
// VerifyIdentity never see it.
type RejectReason string

const (
	ReasonNone                      RejectReason = ""
	ReasonMissingCredentials        RejectReason = "missing_credentials"
	ReasonAutoCreateDisabled        RejectReason = "auto_create_disabled"
	ReasonDirectoryLoginUnsupported RejectReason = "directory_login_unsupported"
	ReasonEmailFirstLogin           RejectReason = "email_first_login"
	ReasonConnection                RejectReason = "connection"
	ReasonLogon                     RejectReason = "logon"
	ReasonCommunityDisallowed       RejectReason = "community_disallowed"
	ReasonStore                     RejectReason = "store"
)

// Outcome is the result of Authenticate.
type Outcome struct {
	Kind    OutcomeKind
	Account *auth.Account
	// Profile is nil when profiles are disabled.
	Profile *auth.Profile
	Reason  RejectReason
	Err     error
}

// Authenticated reports whether the attempt was accepted.
func (o Outcome) Authenticated() bool {
	return o.Kind != OutcomeRejected && o.Account != nil
}

func rejected(reason RejectReason, err error) Outcome {
	return Outcome{Kind: OutcomeRejected, Reason: reason, Err: err}
}

func authenticated(kind OutcomeKind, account *auth.Account, profile *auth.Profile) Outcome {
	return Outcome{Kind: kind, Account: account, Profile: profile}
}
