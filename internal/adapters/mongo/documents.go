package mongo

import (
	"errors"
	"time"

	"chirp/internal/core/errs"
	"chirp/internal/core/post"
	"chirp/internal/core/user"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

type userDocument struct {
	ID                string    `bson:"_id"`
	Username          string    `bson:"username"`
	Password          string    `bson:"password"`
	DisplayName       string    `bson:"displayName"`
	ProfilePictureURL string    `bson:"profilePictureUrl"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func toUserDocument(u *user.User) *userDocument {
	return &userDocument{
		ID:                u.ID.String(),
		Username:          u.Username,
		Password:          u.Password,
		DisplayName:       u.DisplayName,
		ProfilePictureURL: u.ProfilePictureURL,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (d *userDocument) toUser() *user.User {
	return &user.User{
		ID:                uuid.FromStringOrNil(d.ID),
		Username:          d.Username,
		Password:          d.Password,
		DisplayName:       d.DisplayName,
		ProfilePictureURL: d.ProfilePictureURL,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type postDocument struct {
	ID             string    `bson:"_id"`
	Kind           string    `bson:"kind"`
	Content        string    `bson:"content,omitempty"`
	Likes          int64     `bson:"likes"`
	Author         string    `bson:"author"`
	OriginalPostID string    `bson:"originalPost,omitempty"`
	CreatedAt      time.Time `bson:"createdAt"`
}

func toPostDocument(p *post.Post) *postDocument {
	d := &postDocument{
		ID:        p.ID.String(),
		Kind:      string(p.Kind),
		Content:   p.Content,
		Likes:     p.Likes,
		Author:    p.UserID.String(),
		CreatedAt: p.CreatedAt,
	}
	if p.OriginalPostID != nil {
		d.OriginalPostID = p.OriginalPostID.String()
	}
	return d
}

func (d *postDocument) toPost() *post.Post {
	p := &post.Post{
		ID:        uuid.FromStringOrNil(d.ID),
		Kind:      post.Kind(d.Kind),
		Content:   d.Content,
		Likes:     d.Likes,
		UserID:    uuid.FromStringOrNil(d.Author),
		CreatedAt: d.CreatedAt,
	}
	if d.OriginalPostID != "" {
		id := uuid.FromStringOrNil(d.OriginalPostID)
		p.OriginalPostID = &id
	}
	return p
}

func notFound(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.NotFound(msg)
	}
	return err
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
