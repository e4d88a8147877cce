package fogbugz

import (
	"context"
	"strings"

	auth "github.com/goliatone/go-auth-fogbugz"
)

// ProviderName identifies this mechanism in activity events.
const ProviderName = "fogbugz"

const loggerName = "auth.fogbugz"

// IdentityProvider authenticates logins against FogBugz and keeps the local
// account and its remote profile in step with the FogBugz person.
type IdentityProvider struct {
	settings Settings
	accounts auth.AccountStore
	profiles auth.ProfileStore
	factory  RemoteClientFactory
	logger   auth.Logger
	provider auth.LoggerProvider
	activity auth.ActivitySink
	metrics  auth.Metrics
}

var _ auth.IdentityProvider = (*IdentityProvider)(nil)

// NewIdentityProvider validates settings and returns a provider using the
// given stores. factory opens one RemoteClient per attempt.
func NewIdentityProvider(settings Settings, accounts auth.AccountStore, profiles auth.ProfileStore, factory RemoteClientFactory) (*IdentityProvider, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if accounts == nil || profiles == nil {
		return nil, newError(ErrInvalidConfiguration, "fogbugz provider requires account and profile stores", nil)
	}

	if factory == nil {
		return nil, newError(ErrInvalidConfiguration, "fogbugz provider requires a remote client factory", nil)
	}

	loggerProvider, logger := auth.ResolveLogger(loggerName, nil, nil)
	return &IdentityProvider{
		settings: settings,
		accounts: accounts,
		profiles: profiles,
		factory:  factory,
		logger:   logger,
		provider: loggerProvider,
		activity: auth.NormalizeActivitySink(nil),
		metrics:  auth.NormalizeMetrics(nil),
	}, nil
}

// NewIdentityProviderFromRepositories uses the stores of a RepositoryManager.
func NewIdentityProviderFromRepositories(settings Settings, repo auth.RepositoryManager, factory RemoteClientFactory) (*IdentityProvider, error) {
	if repo == nil {
		return nil, newError(ErrInvalidConfiguration, "fogbugz provider requires a repository manager", nil)
	}

	if err := repo.Validate(); err != nil {
		return nil, wrapError(ErrInvalidConfiguration, err, nil)
	}

	return NewIdentityProvider(settings, repo.Accounts(), repo.Profiles(), factory)
}

// WithLogger sends every log line of the provider to l.
func (p *IdentityProvider) WithLogger(l auth.Logger) *IdentityProvider {
	p.provider, p.logger = auth.ResolveLogger(loggerName, p.provider, l)
	return p
}

// WithLoggerProvider overrides the logger provider used by the provider.
func (p *IdentityProvider) WithLoggerProvider(provider auth.LoggerProvider) *IdentityProvider {
	p.provider, p.logger = auth.ResolveLogger(loggerName, provider, nil)
	return p
}

// WithActivitySink records login and provisioning events on sink.
func (p *IdentityProvider) WithActivitySink(sink auth.ActivitySink) *IdentityProvider {
	p.activity = auth.NormalizeActivitySink(sink)
	return p
}

func (p *IdentityProvider) WithMetrics(m auth.Metrics) *IdentityProvider {
	p.metrics = auth.NormalizeMetrics(m)
	return p
}

// Settings returns a copy of the resolved settings.
func (p *IdentityProvider) Settings() Settings {
	return p.settings
}

// VerifyIdentity implements auth.IdentityProvider. Every declined attempt
// returns auth.ErrAuthenticationFailed.
func (p *IdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	outcome := p.Authenticate(ctx, identifier, password)
	if !outcome.Authenticated() {
		return nil, auth.ErrAuthenticationFailed
	}
	return auth.NewIdentityFromAccount(outcome.Account), nil
}

// FindIdentityByIdentifier implements auth.IdentityProvider using the local
// directory only.
func (p *IdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	if strings.TrimSpace(identifier) == "" {
		return nil, auth.ErrIdentityNotFound
	}

	lookup, err := ResolveLogin(ctx, p.accounts, identifier)
	if err != nil {
		return nil, err
	}

	if !lookup.Found() {
		return nil, auth.ErrIdentityNotFound
	}

	return auth.NewIdentityFromAccount(lookup.Account), nil
}

// Authenticate runs the full decision for one attempt. It never returns an
// error, failures are reported through the Outcome.
func (p *IdentityProvider) Authenticate(ctx context.Context, username, password string) Outcome {
	outcome := p.authenticate(ctx, username, password)
	p.report(ctx, username, outcome)
	return outcome
}

func (p *IdentityProvider) authenticate(ctx context.Context, username, password string) Outcome {
	cfg := p.settings

	if ParseLogin(username).Login == "" || password == "" {
		return p.decline(ReasonMissingCredentials, "missing username or password", nil)
	}

	lookup, err := ResolveLogin(ctx, p.accounts, username)
	if err != nil {
		return p.storeFailure(err)
	}

	account := lookup.Account
	meta := map[string]any{"login": lookup.Login, "email_login": lookup.EmailLogin}

	if account == nil && !cfg.AutoCreateUsers {
		return p.decline(ReasonAutoCreateDisabled, "no local account and auto creation is disabled", meta)
	}

	if !lookup.EmailLogin && !cfg.ServerUsesLDAP {
		return p.decline(ReasonDirectoryLoginUnsupported, "directory login on a server without LDAP", meta)
	}

	if account == nil && lookup.EmailLogin && cfg.ServerUsesLDAP {
		return p.decline(ReasonEmailFirstLogin, "first login on an LDAP server must use the directory name", meta)
	}

	var profile *auth.Profile
	if account != nil && cfg.EnableProfile {
		if profile, err = p.profiles.Get(ctx, account.ID); err != nil {
			if !auth.IsNotFound(err) {
				return p.storeFailure(wrapError(ErrStore, err, map[string]any{"operation": "get_profile"}))
			}
			profile = nil
		}
	}

	sess, err := openSession(ctx, p.factory, cfg.Server, p.logger, p.metrics)
	if err != nil {
		p.logger.Error("fogbugz connection failed", "server", cfg.Server, "error", err)
		return rejected(ReasonConnection, err)
	}

	if profile != nil && profile.Token != "" {
		sess.clearStaleToken(ctx, profile.Token)
	}

	token, err := sess.logon(ctx, lookup.RemoteLogin, password)
	if err != nil {
		return p.remoteFailure(err, meta)
	}

	identity, err := sess.fetchIdentity(ctx)
	if err != nil {
		sess.logoff(ctx)
		return p.remoteFailure(err, meta)
	}

	if identity.Community && !cfg.AllowCommunity {
		sess.logoff(ctx)
		meta["ix_person"] = identity.IxPerson
		return p.decline(ReasonCommunityDisallowed, "community accounts are not allowed", meta)
	}

	ixPerson := identity.IxPerson
	if profile != nil && profile.IxPerson > 0 {
		ixPerson = profile.IxPerson
	}

	role := identity.Role()
	isAdmin := identity.Administrator

	kind := OutcomeAuthenticatedExisting
	if account != nil {
		if p.mapRoles(account, isAdmin) {
			if err := p.accounts.Save(ctx, account); err != nil {
				sess.logoff(ctx)
				return p.storeFailure(wrapError(ErrStore, err, map[string]any{"operation": "save_account"}))
			}
			p.recordActivity(ctx, auth.ActivityEventAccountRoleChanged, account, map[string]any{
				"is_superuser": account.IsSuperuser,
				"is_staff":     account.IsStaff,
				"ix_person":    ixPerson,
			})
		}
	} else {
		kind = OutcomeAuthenticatedNew
		if account, err = p.createAccount(ctx, lookup, identity, isAdmin); err != nil {
			sess.logoff(ctx)
			return p.storeFailure(err)
		}
	}

	if cfg.EnableProfile {
		if profile, err = p.saveProfile(ctx, account, profile, ixPerson, role, token); err != nil {
			sess.logoff(ctx)
			return p.storeFailure(err)
		}
	}

	if !cfg.PersistToken() {
		sess.logoff(ctx)
	}

	return authenticated(kind, account, profile)
}

// mapRoles applies the administrator mapping to an existing account and
// reports whether a flag changed.
func (p *IdentityProvider) mapRoles(account *auth.Account, isAdmin bool) bool {
	changed := false

	if p.settings.MapAdminAsSuper && account.IsSuperuser != isAdmin {
		account.IsSuperuser = isAdmin
		changed = true
	}

	if p.settings.MapAdminAsStaff && isAdmin && !account.IsStaff {
		account.IsStaff = true
		changed = true
	}

	return changed
}

func (p *IdentityProvider) createAccount(ctx context.Context, lookup LoginLookup, identity RemoteIdentity, isAdmin bool) (*auth.Account, error) {
	email := identity.Email
	if lookup.EmailLogin {
		email = lookup.Login
	}

	account := auth.NewAccount(lookup.Login, email)
	account.FirstName = strings.TrimSpace(identity.FullName)
	account.IsSuperuser = p.settings.MapAdminAsSuper && isAdmin
	account.IsStaff = p.settings.MapAdminAsStaff && isAdmin

	created, err := p.accounts.Register(ctx, account)
	if err != nil {
		return nil, wrapError(ErrStore, err, map[string]any{
			"operation": "register_account",
			"login":     lookup.Login,
		})
	}

	if created == nil {
		created = account
	}

	p.recordActivity(ctx, auth.ActivityEventAccountCreated, created, map[string]any{
		"ix_person":    identity.IxPerson,
		"is_superuser": created.IsSuperuser,
		"is_staff":     created.IsStaff,
	})

	return created, nil
}

func (p *IdentityProvider) saveProfile(ctx context.Context, account *auth.Account, profile *auth.Profile, ixPerson int, role auth.RemoteRole, token string) (*auth.Profile, error) {
	if profile == nil {
		profile = &auth.Profile{
			AccountID: account.ID,
			IxPerson:  ixPerson,
		}
		profile.SetRole(role)
		if p.settings.PersistToken() {
			profile.Token = token
		}

		created, err := p.profiles.Create(ctx, profile)
		if err != nil {
			return nil, wrapError(ErrStore, err, map[string]any{
				"operation":  "create_profile",
				"account_id": account.ID.String(),
			})
		}
		if created == nil {
			created = profile
		}
		return created, nil
	}

	if previous := profile.Role(); previous != role {
		p.logger.Info("fogbugz role changed",
			"account_id", account.ID.String(),
			"from", previous.String(),
			"to", role.String(),
		)
	}

	profile.SetRole(role)
	if p.settings.PersistToken() {
		profile.Token = token
	}

	if err := p.profiles.Save(ctx, profile); err != nil {
		return nil, wrapError(ErrStore, err, map[string]any{
			"operation":  "save_profile",
			"account_id": account.ID.String(),
		})
	}

	return profile, nil
}

func (p *IdentityProvider) decline(reason RejectReason, message string, metadata map[string]any) Outcome {
	err := newError(ErrPolicyRejection, message, metadata)
	p.logger.Debug("fogbugz login declined", "reason", string(reason), "error", err)
	return rejected(reason, err)
}

func (p *IdentityProvider) remoteFailure(err error, metadata map[string]any) Outcome {
	if hasTextCode(err, TextCodeConnection) {
		p.logger.Error("fogbugz connection failed", "server", p.settings.Server, "error", err)
		return rejected(ReasonConnection, err)
	}

	p.logger.Debug("fogbugz logon failed", "login", metadata["login"], "error", err)
	return rejected(ReasonLogon, err)
}

func (p *IdentityProvider) storeFailure(err error) Outcome {
	if !hasTextCode(err, TextCodeStore) {
		err = wrapError(ErrStore, err, nil)
	}
	p.logger.Error("fogbugz directory store failed", "error", err)
	return rejected(ReasonStore, err)
}

func (p *IdentityProvider) report(ctx context.Context, username string, outcome Outcome) {
	p.metrics.RecordAttempt(outcome.Kind.String(), string(outcome.Reason))

	if outcome.Authenticated() {
		p.recordActivity(ctx, auth.ActivityEventLoginSuccess, outcome.Account, map[string]any{
			"outcome": outcome.Kind.String(),
		})
		return
	}

	auth.RecordActivity(ctx, p.activity, p.logger, auth.ActivityEvent{
		EventType: auth.ActivityEventLoginFailure,
		Provider:  ProviderName,
		Username:  strings.ToLower(strings.TrimSpace(username)),
		Metadata: map[string]any{
			"reason": string(outcome.Reason),
		},
	})
}

func (p *IdentityProvider) recordActivity(ctx context.Context, eventType auth.ActivityEventType, account *auth.Account, metadata map[string]any) {
	event := auth.ActivityEvent{
		EventType: eventType,
		Provider:  ProviderName,
		Metadata:  metadata,
	}
	if account != nil {
		event.AccountID = account.ID.String()
		event.Username = account.Username
	}
	auth.RecordActivity(ctx, p.activity, p.logger, event)
}
