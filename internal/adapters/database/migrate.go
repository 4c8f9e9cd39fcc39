package database

import (
	"chirp/internal/core/post"
	"chirp/internal/core/user"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.User{}, &post.Post{})
}
