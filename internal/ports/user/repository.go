package user

import (
	"context"
	"time"

	"chirp/internal/core/user"

	"github.com/gofrs/uuid"
)

// UserRepository is the credential store. Lookups that match nothing return
// errs.ErrNotFound and a taken username on Create returns errs.ErrDuplicateUsername.
type UserRepository interface {
	Create(ctx context.Context, user *user.User) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error)
	UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) (*user.User, error)
}

// DTOs for the use cases

type AuthResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expiresAt"`
	User      *UserDTO `json:"user"`
}

// UserDTO is the public view of a user. It never carries the password hash.
type UserDTO struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"displayName"`
	ProfilePictureURL string    `json:"profilePictureUrl"`
	CreatedAt         time.Time `json:"createdAt"`
}

func ToUserDTO(u *user.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID.String(),
		Username:          u.Username,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
	}
}
