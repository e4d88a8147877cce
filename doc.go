// Package auth holds the local directory side of the FogBugz authentication
// bridge: accounts, the remote profile that links an account to a FogBugz
// person, the bun backed stores for both, and the ambient pieces (logging,
// activity, metrics, migrations) shared with provider packages.
//
// Accounts and profiles:
//   - Account is the local principal. Providers look it up by email (case
//     insensitive) or by login name and may provision new ones.
//   - Profile caches the remote linkage of an account: the FogBugz person id,
//     the last session token and the remote role. The role is modeled as a
//     RemoteRole and only projected to flat boolean columns when persisted.
//
// Activity sinks:
//   - ActivitySink receives login, provisioning and role change events. Sinks
//     run best-effort (errors are logged) so you can forward to a database or
//     queue without blocking authentication.
//
// Schema:
//   - GetMigrationsFS exposes the embedded SQL migrations and Migrate applies
//     them to a *sql.DB using golang-migrate.
package auth
