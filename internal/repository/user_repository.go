package repository

import (
	"github.com/yukikurage/task-tracker/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmails returns the users matching the given emails
func (r *GormUserRepository) FindByEmails(emails []string) ([]models.User, error) {
	var users []models.User
	if len(emails) == 0 {
		return users, nil
	}
	if err := r.db.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ListEligible lists non-staff users ordered by id
func (r *GormUserRepository) ListEligible() ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("is_staff = ?", false).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateAvatar replaces the avatar reference of a user
func (r *GormUserRepository) UpdateAvatar(id uint64, avatar string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", id).Update("avatar", avatar)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetStaff grants or revokes staff status
func (r *GormUserRepository) SetStaff(id uint64, staff bool) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("is_staff", staff).Error
}
