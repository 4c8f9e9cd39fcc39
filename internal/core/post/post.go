package post

import (
	"time"

	"github.com/gofrs/uuid"
)

const MaxContentLength = 280

// Kind tags a post as carrying its own content or pointing at another post.
type Kind string

const (
	KindOriginal Kind = "original"
	KindRepost   Kind = "repost"
)

type Post struct {
	ID             uuid.UUID  `gorm:"primaryKey;type:char(36)"`
	Kind           Kind       `gorm:"type:varchar(16);not null"`
	Content        string     `gorm:"type:text"`
	Likes          int64      `gorm:"not null;default:0"`
	UserID         uuid.UUID  `gorm:"type:char(36);not null;index"`
	OriginalPostID *uuid.UUID `gorm:"type:char(36);index"` // set only for reposts
	CreatedAt      time.Time  `gorm:"not null;index"`
}

// NewOriginal builds a post with its own content.
func NewOriginal(authorID uuid.UUID, content string, at time.Time) *Post {
	return &Post{
		ID:        uuid.Must(uuid.NewV4()),
		Kind:      KindOriginal,
		Content:   content,
		UserID:    authorID,
		CreatedAt: at,
	}
}

// NewRepost builds a post that displays originalID instead of content of its own.
func NewRepost(authorID, originalID uuid.UUID, at time.Time) *Post {
	return &Post{
		ID:             uuid.Must(uuid.NewV4()),
		Kind:           KindRepost,
		UserID:         authorID,
		OriginalPostID: &originalID,
		CreatedAt:      at,
	}
}

func (p *Post) IsRepost() bool {
	return p.Kind == KindRepost && p.OriginalPostID != nil
}

// RootID is the ID a repost of p should reference: p itself, or the post p reposts.
func (p *Post) RootID() uuid.UUID {
	if p.IsRepost() {
		return *p.OriginalPostID
	}
	return p.ID
}
