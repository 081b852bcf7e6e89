package dto

import (
	"time"

	"github.com/yukikurage/task-tracker/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Private     bool                 `json:"private"`
	OwnerID     *uint64              `json:"owner_id"`
	DateCreated time.Time            `json:"date_created"`
	DateUpdated time.Time            `json:"date_updated"`
}

// MemberDTO is one row of a project's role list
type MemberDTO struct {
	User          UserDTO   `json:"user"`
	RoleInProject string    `json:"role_in_project"`
	DateJoined    time.Time `json:"date_joined"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		Private:     project.Private,
		OwnerID:     project.OwnerID,
		DateCreated: project.DateCreated,
		DateUpdated: project.DateUpdated,
	}
}

// ToProjectDTOs converts a slice of projects
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	result := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		result[i] = ToProjectDTO(p)
	}
	return result
}

// ToMemberDTO converts a hiring with its user preloaded
func ToMemberDTO(hiring models.Hiring) MemberDTO {
	return MemberDTO{
		User:          ToUserDTO(hiring.User),
		RoleInProject: hiring.RoleInProject,
		DateJoined:    hiring.DateJoined,
	}
}

// ToMemberDTOs converts a project's hirings
func ToMemberDTOs(hirings []models.Hiring) []MemberDTO {
	result := make([]MemberDTO, len(hirings))
	for i, h := range hirings {
		result[i] = ToMemberDTO(h)
	}
	return result
}
