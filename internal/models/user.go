package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const DefaultAvatar = "profile.png"

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FirstName    string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string     `gorm:"type:varchar(100)" json:"last_name"`
	Avatar       string     `gorm:"type:varchar(512);not null;default:'profile.png'" json:"avatar"`
	IsStaff      bool       `gorm:"not null;default:false" json:"is_staff"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	History      StringList `gorm:"type:text" json:"history"`
	DateJoined   time.Time  `json:"date_joined"`

	// Relations
	Hirings []Hiring `gorm:"foreignKey:UserID" json:"-"`
}

// HasJoined reports whether the project title is already recorded in the
// user's history log.
func (u *User) HasJoined(projectTitle string) bool {
	for _, title := range u.History {
		if title == projectTitle {
			return true
		}
	}
	return false
}

// StringList is an append-only list persisted as a JSON array.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported history value type %T", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}

	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("failed to decode history: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}
