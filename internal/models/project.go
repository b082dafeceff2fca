package models

import "time"

// Project owns work items and tracks its membership in four disjoint
// sets plus an immutable creator. Status is false while the project is
// active and true once it is closed.
type Project struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedDate time.Time  `gorm:"not null" json:"created_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      bool       `gorm:"not null;default:false" json:"status"`
	CreatorID   uint64     `gorm:"not null" json:"creator"`

	Admins     IDSet `gorm:"serializer:json" json:"admins"`
	Developers IDSet `gorm:"serializer:json" json:"developers"`
	Clients    IDSet `gorm:"serializer:json" json:"clients"`
	Invites    IDSet `gorm:"serializer:json" json:"invites"`
	Tasks      IDSet `gorm:"serializer:json" json:"tasks"`
	Bugs       IDSet `gorm:"serializer:json" json:"bugs"`
}

// RoleOf resolves a user's role in the project. Membership sets are
// checked in precedence order, so even if a user somehow appears in more
// than one set the highest-ranking role wins.
func (p *Project) RoleOf(userID uint64) Role {
	switch {
	case p.CreatorID == userID:
		return RoleCreator
	case p.Admins.Contains(userID):
		return RoleAdmin
	case p.Developers.Contains(userID):
		return RoleDeveloper
	case p.Clients.Contains(userID):
		return RoleClient
	case p.Invites.Contains(userID):
		return RoleInvitee
	default:
		return RoleOutsider
	}
}

// MemberSet returns the membership set holding the given assignable
// role, or nil for roles that have no set (creator, outsider).
func (p *Project) MemberSet(role Role) *IDSet {
	switch role {
	case RoleAdmin:
		return &p.Admins
	case RoleDeveloper:
		return &p.Developers
	case RoleClient:
		return &p.Clients
	case RoleInvitee:
		return &p.Invites
	default:
		return nil
	}
}

// StripMember removes the user from every membership set. The creator
// reference is untouched; it cannot be removed.
func (p *Project) StripMember(userID uint64) {
	p.Admins = p.Admins.Remove(userID)
	p.Developers = p.Developers.Remove(userID)
	p.Clients = p.Clients.Remove(userID)
	p.Invites = p.Invites.Remove(userID)
}

// WorkItemRefs returns the project's reference set for the given
// work-item kind.
func (p *Project) WorkItemRefs(kind WorkItemKind) *IDSet {
	if kind == KindBug {
		return &p.Bugs
	}
	return &p.Tasks
}
