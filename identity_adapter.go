package auth

// NewIdentityFromAccount exposes an account as an Identity.
func NewIdentityFromAccount(account *Account) Identity {
	if account == nil {
		return nil
	}
	return accountIdentity{
		id:       account.ID.String(),
		username: account.Username,
		email:    account.Email,
		role:     AccountRole(account),
	}
}

type accountIdentity struct {
	id       string
	username string
	email    string
	role     string
}

func (a accountIdentity) ID() string {
	return a.id
}

func (a accountIdentity) Username() string {
	return a.username
}

func (a accountIdentity) Email() string {
	return a.email
}

func (a accountIdentity) Role() string {
	return a.role
}

var _ Identity = accountIdentity{}
