package mongo

import (
	"context"
	"fmt"

	"chirp/internal/core/post"
	postPort "chirp/internal/ports/post"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// PostRepositoryMongo implements PostRepository on a MongoDB collection
type PostRepositoryMongo struct {
	coll *mongo.Collection
}

func NewPostRepositoryMongo(db *mongo.Database) *PostRepositoryMongo {
	return &PostRepositoryMongo{coll: db.Collection(postsCollection)}
}

func (repo *PostRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	return err
}

func (repo *PostRepositoryMongo) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if _, err := repo.coll.InsertOne(ctx, toPostDocument(p)); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

func (repo *PostRepositoryMongo) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var doc postDocument
	if err := repo.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, notFound(err, "post not found")
	}
	return doc.toPost(), nil
}

func (repo *PostRepositoryMongo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*post.Post, error) {
	if len(ids) == 0 {
		return []*post.Post{}, nil
	}
	return repo.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}}}, nil)
}

func (repo *PostRepositoryMongo) FindAll(ctx context.Context) ([]*post.Post, error) {
	return repo.find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
}

func (repo *PostRepositoryMongo) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*post.Post, error) {
	return repo.find(ctx, bson.D{{Key: "author", Value: userID.String()}}, options.Find().SetSort(newestFirst))
}

func (repo *PostRepositoryMongo) FindAfter(ctx context.Context, cursor postPort.Cursor, limit int) ([]*post.Post, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gt", Value: cursor.CreatedAt}}}},
		bson.D{
			{Key: "createdAt", Value: cursor.CreatedAt},
			{Key: "_id", Value: bson.D{{Key: "$gt", Value: cursor.ID.String()}}},
		},
	}}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return repo.find(ctx, filter, opts)
}

func (repo *PostRepositoryMongo) IncrementLikes(ctx context.Context, id uuid.UUID) (int64, error) {
	var doc postDocument
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "likes", Value: 1}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, notFound(err, "post not found")
	}
	return doc.Likes, nil
}

func (repo *PostRepositoryMongo) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]*post.Post, error) {
	var (
		cur *mongo.Cursor
		err error
	)
	if opts != nil {
		cur, err = repo.coll.Find(ctx, filter, opts)
	} else {
		cur, err = repo.coll.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	posts := make([]*post.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toPost())
	}
	return posts, nil
}
