package database

import (
	"context"
	"fmt"

	"chirp/internal/core/errs"
	"chirp/internal/core/post"
	postPort "chirp/internal/ports/post"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository on gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Where("id = ?", id.String()).First(&p).Error; err != nil {
		return nil, notFound(err, "post not found")
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*post.Post, error) {
	var posts []*post.Post
	if len(ids) == 0 {
		return posts, nil
	}
	if err := repo.db.WithContext(ctx).Where("id IN ?", idStrings(ids)).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindAll(ctx context.Context) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Order("created_at DESC, id DESC").
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) FindAfter(ctx context.Context, cursor postPort.Cursor, limit int) ([]*post.Post, error) {
	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Where("created_at > ? OR (created_at = ? AND id > ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID.String()).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("page posts: %w", err)
	}
	return posts, nil
}

func (repo *PostRepositoryDatabase) IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var likes int64
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&post.Post{}).
			Where("id = ?", id.String()).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if res.Error != nil {
			return fmt.Errorf("increment likes: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errs.NotFound("post not found")
		}
		return tx.Model(&post.Post{}).
			Select("likes").
			Where("id = ?", id.String()).
			Row().
			Scan(&likes)
	})
	if err != nil {
		return 0, err
	}
	return likes, nil
}
