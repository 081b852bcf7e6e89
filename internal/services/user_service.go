package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/yukikurage/task-tracker/internal/models"
	"github.com/yukikurage/task-tracker/internal/repository"
	"github.com/yukikurage/task-tracker/internal/storage"
	"github.com/yukikurage/task-tracker/internal/utils"
	"gorm.io/gorm"
)

// Profile is a user together with the projects they belong to.
type Profile struct {
	User *models.User
	// Projects maps project title to the user's role in it
	Projects map[string]string
}

// UserService serves profiles, the people picker and avatar uploads.
type UserService struct {
	users      repository.UserRepository
	hirings    repository.HiringRepository
	tasks      repository.TaskRepository
	membership *MembershipService
	storage    storage.ObjectStorage
}

// NewUserService creates a UserService. objects may be nil when no object
// storage is configured.
func NewUserService(
	users repository.UserRepository,
	hirings repository.HiringRepository,
	tasks repository.TaskRepository,
	membership *MembershipService,
	objects storage.ObjectStorage,
) *UserService {
	return &UserService{
		users:      users,
		hirings:    hirings,
		tasks:      tasks,
		membership: membership,
		storage:    objects,
	}
}

// GetProfile loads a user's profile.
func (s *UserService) GetProfile(userID uint64) (*Profile, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	hirings, err := s.hirings.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make(map[string]string, len(hirings))
	for _, h := range hirings {
		projects[h.Project.Title] = h.RoleInProject
	}

	return &Profile{User: user, Projects: projects}, nil
}

// ListEligible returns the users that can be hired, executors or testers.
func (s *UserService) ListEligible() ([]models.User, error) {
	users, err := s.users.ListEligible()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AvatarUpload is an image uploaded as the user's avatar.
type AvatarUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
}

// UpdateAvatar stores the image and points the user's avatar at it. The
// previous object is removed on a best effort basis.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint64, upload AvatarUpload) (*models.User, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	ext, ok := utils.AvatarExtension(upload.ContentType)
	if !ok {
		return nil, ErrUnsupportedImage
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.storage.Save(ctx, utils.GenerateAvatarKey(userID, ext), upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.users.UpdateAvatar(userID, ref); err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	if key, ok := s.storage.KeyFromURL(user.Avatar); ok {
		if err := s.storage.Delete(ctx, key); err != nil {
			log.Printf("users: failed to remove old avatar of user %d: %v", userID, err)
		}
	}

	user.Avatar = ref
	return user, nil
}

// PromoteToStaff turns a user into staff. Staff never take part in projects,
// so the user leaves every project and every task they executed or tested.
func (s *UserService) PromoteToStaff(actor *models.User, userID uint64) (*models.User, error) {
	if actor == nil || !actor.IsStaff {
		return nil, ErrForbidden
	}

	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	if user.IsStaff {
		return user, nil
	}

	if err := s.users.SetStaff(userID, true); err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	if err := s.membership.RemoveAllForUser(userID); err != nil {
		return nil, err
	}
	if err := s.tasks.ClearAssignee(userID); err != nil {
		return nil, fmt.Errorf("failed to clear task assignments: %w", err)
	}

	user.IsStaff = true
	return user, nil
}

func (s *UserService) findUser(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
