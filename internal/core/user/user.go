package user

import (
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

const (
	MaxUsernameLength    = 30
	MaxDisplayNameLength = 50
	MinPasswordLength    = 6

	DefaultProfilePictureURL = "https://via.placeholder.com/150"
)

type User struct {
	ID                uuid.UUID `gorm:"primaryKey;type:char(36)"`
	Username          string    `gorm:"type:varchar(30);uniqueIndex;not null"`
	Password          string    `gorm:"not null"` // bcrypt hash
	DisplayName       string    `gorm:"type:varchar(50);not null"`
	ProfilePictureURL string    `gorm:"type:varchar(255);not null"`
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time
}

// NormalizeUsername is applied before every username lookup or write.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
