package database

import (
	"context"
	"errors"
	"fmt"

	"chirp/internal/core/errs"
	"chirp/internal/core/user"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// UserRepositoryDatabase implements UserRepository on gorm
type UserRepositoryDatabase struct {
	db *gorm.DB
}

func NewUserRepositoryDatabase(db *gorm.DB) *UserRepositoryDatabase {
	return &UserRepositoryDatabase{db: db}
}

func (repo *UserRepositoryDatabase) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.New(errs.ErrDuplicateUsername, "username already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (repo *UserRepositoryDatabase) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err, "user not found")
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := repo.db.WithContext(ctx).Where("id = ?", id.String()).First(&u).Error; err != nil {
		return nil, notFound(err, "user not found")
	}
	return &u, nil
}

func (repo *UserRepositoryDatabase) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	var users []*user.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := repo.db.WithContext(ctx).Where("id IN ?", idStrings(ids)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	return users, nil
}

func (repo *UserRepositoryDatabase) UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) (*user.User, error) {
	if err := repo.db.WithContext(ctx).Model(&user.User{}).
		Where("id = ?", id.String()).
		Update("profile_picture_url", url).Error; err != nil {
		return nil, fmt.Errorf("update profile picture: %w", err)
	}
	return repo.FindByID(ctx, id)
}
