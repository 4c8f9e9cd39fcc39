package post

import (
	"context"
	"time"

	"chirp/internal/core/post"
	userPort "chirp/internal/ports/user"

	"github.com/gofrs/uuid"
)

// PostRepository is the content store. Listings are newest first unless
// stated otherwise; lookups that match nothing return errs.ErrNotFound.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*post.Post, error)
	FindAll(ctx context.Context) ([]*post.Post, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*post.Post, error)
	// FindAfter pages through posts oldest first, strictly after cursor.
	FindAfter(ctx context.Context, cursor Cursor, limit int) ([]*post.Post, error)
	// IncrementLikes adds one like in a single write and returns the new count.
	IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error)
}

// FeedIndex keeps post IDs ordered by creation time for the global feed.
type FeedIndex interface {
	Add(ctx context.Context, entries ...IndexEntry) error
	// Recent returns up to limit post IDs, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int64) ([]string, error)
}

type IndexEntry struct {
	PostID    string
	CreatedAt time.Time
}

// Cursor orders posts by (CreatedAt, ID).
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

func CursorOf(p *post.Post) Cursor {
	return Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
}

// DTOs for the use cases

// PostDTO is a resolved post: author expanded and, for a repost, the
// original expanded together with its own author.
type PostDTO struct {
	ID           string            `json:"id"`
	Kind         post.Kind         `json:"kind"`
	Content      string            `json:"content,omitempty"`
	Likes        int64             `json:"likes"`
	Author       *userPort.UserDTO `json:"author"`
	OriginalPost *PostDTO          `json:"originalPost,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type LikeDTO struct {
	ID    string `json:"id"`
	Likes int64  `json:"likes"`
}

type ProfileDTO struct {
	User  *userPort.UserDTO `json:"user"`
	Posts []*PostDTO        `json:"posts"`
}
