// Package fogbugz authenticates against a FogBugz server and reconciles the
// remote person with the local directory kept by go-auth-fogbugz.
//
// The IdentityProvider implements auth.IdentityProvider so it can be plugged
// in next to other authentication mechanisms. A declined attempt returns
// auth.ErrAuthenticationFailed and the caller moves on to the next mechanism.
// Authenticate exposes the detailed Outcome.
//
// The FogBugz wire protocol lives behind RemoteClient. Callers provide a
// RemoteClientFactory for their transport.
package fogbugz
