package models

// Role is a user's standing within one project. The zero value is
// Outsider: an unknown user simply has no standing.
type Role int

const (
	RoleOutsider Role = iota
	RoleInvitee
	RoleClient
	RoleDeveloper
	RoleAdmin
	RoleCreator
)

func (r Role) String() string {
	switch r {
	case RoleCreator:
		return "creator"
	case RoleAdmin:
		return "admin"
	case RoleDeveloper:
		return "developer"
	case RoleClient:
		return "client"
	case RoleInvitee:
		return "invitee"
	default:
		return "outsider"
	}
}

// ParseMemberRole maps a requested role name to one of the assignable
// member roles. Creator and invitee are not assignable this way.
func ParseMemberRole(s string) (Role, bool) {
	switch s {
	case "admin":
		return RoleAdmin, true
	case "developer":
		return RoleDeveloper, true
	case "client":
		return RoleClient, true
	default:
		return RoleOutsider, false
	}
}
