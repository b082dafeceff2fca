package models

// User holds profile data plus mirrored references to every project,
// pending invite and work item the user is linked to. The reference sets
// are the user-side half of relationships also stored on the project and
// work-item rows; the services keep both halves in step.
type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Username     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	Bio          string `gorm:"type:text" json:"bio"`

	Projects       IDSet `gorm:"serializer:json" json:"projects"`
	ProjectInvites IDSet `gorm:"serializer:json" json:"project_invites"`
	Tasks          IDSet `gorm:"serializer:json" json:"tasks"`
	Bugs           IDSet `gorm:"serializer:json" json:"bugs"`
}

// WorkItemRefs returns the user's reference set for the given work-item
// kind.
func (u *User) WorkItemRefs(kind WorkItemKind) *IDSet {
	if kind == KindBug {
		return &u.Bugs
	}
	return &u.Tasks
}
