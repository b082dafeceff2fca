package dto

import (
	"github.com/nwaizer/projecthub/internal/models"
)

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID             uint64       `json:"id"`
	Name           string       `json:"name"`
	Username       string       `json:"username"`
	Bio            string       `json:"bio"`
	Projects       models.IDSet `json:"projects"`
	ProjectInvites models.IDSet `json:"project_invites"`
	Tasks          models.IDSet `json:"tasks"`
	Bugs           models.IDSet `json:"bugs"`
}

// ToUserDTO converts a User model to UserDTO.
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Username:       user.Username,
		Bio:            user.Bio,
		Projects:       user.Projects,
		ProjectInvites: user.ProjectInvites,
		Tasks:          user.Tasks,
		Bugs:           user.Bugs,
	}
}

// ToUserDTOs converts a slice of users.
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}
