package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/services"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64 `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
	IsStaff   bool   `json:"is_staff"`
}

// ProfileDTO is a user with the projects they belong to and the titles they
// have ever joined.
type ProfileDTO struct {
	UserDTO
	DateJoined time.Time         `json:"date_joined"`
	History    []string          `json:"history"`
	Projects   map[string]string `json:"projects"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		IsStaff:   user.IsStaff,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	result := make([]UserDTO, len(users))
	for i, u := range users {
		result[i] = ToUserDTO(u)
	}
	return result
}

// ToProfileDTO converts a profile
func ToProfileDTO(profile *services.Profile) ProfileDTO {
	history := []string(profile.User.History)
	if history == nil {
		history = []string{}
	}
	projects := profile.Projects
	if projects == nil {
		projects = map[string]string{}
	}

	return ProfileDTO{
		UserDTO:    ToUserDTO(*profile.User),
		DateJoined: profile.User.DateJoined,
		History:    history,
		Projects:   projects,
	}
}
