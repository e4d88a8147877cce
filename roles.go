package auth

// Local account roles reported through Identity.Role.
const (
	RoleMember    = "member"
	RoleStaff     = "staff"
	RoleSuperuser = "superuser"
)

// AccountRole collapses the privilege flags of an account into a role name.
func AccountRole(account *Account) string {
	switch {
	case account == nil:
		return ""
	case account.IsSuperuser:
		return RoleSuperuser
	case account.IsStaff:
		return RoleStaff
	default:
		return RoleMember
	}
}

// RemoteRole is the FogBugz classification of a person.
type RemoteRole int

const (
	RemoteRoleNormal RemoteRole = iota
	RemoteRoleCommunity
	RemoteRoleAdministrator
)

// RemoteRoleFromFlags classifies a person from the remote flags.
// Administrator wins over community.
func RemoteRoleFromFlags(community, administrator bool) RemoteRole {
	switch {
	case administrator:
		return RemoteRoleAdministrator
	case community:
		return RemoteRoleCommunity
	default:
		return RemoteRoleNormal
	}
}

// Flags returns the (normal, community, administrator) projection.
func (r RemoteRole) Flags() (normal, community, administrator bool) {
	switch r {
	case RemoteRoleAdministrator:
		return false, false, true
	case RemoteRoleCommunity:
		return false, true, false
	default:
		return true, false, false
	}
}

func (r RemoteRole) String() string {
	switch r {
	case RemoteRoleAdministrator:
		return "administrator"
	case RemoteRoleCommunity:
		return "community"
	default:
		return "normal"
	}
}
