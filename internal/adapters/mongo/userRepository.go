package mongo

import (
	"context"
	"fmt"
	"time"

	"chirp/internal/core/errs"
	"chirp/internal/core/user"

	"github.com/gofrs/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepositoryMongo implements UserRepository on a MongoDB collection
type UserRepositoryMongo struct {
	coll *mongo.Collection
}

func NewUserRepositoryMongo(db *mongo.Database) *UserRepositoryMongo {
	return &UserRepositoryMongo{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique username index.
func (repo *UserRepositoryMongo) EnsureIndexes(ctx context.Context) error {
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (repo *UserRepositoryMongo) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if _, err := repo.coll.InsertOne(ctx, toUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, errs.New(errs.ErrDuplicateUsername, "username already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (repo *UserRepositoryMongo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var doc userDocument
	if err := repo.coll.FindOne(ctx, bson.D{{Key: "username", Value: username}}).Decode(&doc); err != nil {
		return nil, notFound(err, "user not found")
	}
	return doc.toUser(), nil
}

func (repo *UserRepositoryMongo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var doc userDocument
	if err := repo.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		return nil, notFound(err, "user not found")
	}
	return doc.toUser(), nil
}

func (repo *UserRepositoryMongo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	users := make([]*user.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := repo.coll.Find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: idStrings(ids)}}}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	for i := range docs {
		users = append(users, docs[i].toUser())
	}
	return users, nil
}

func (repo *UserRepositoryMongo) UpdateProfilePicture(ctx context.Context, id uuid.UUID, url string) (*user.User, error) {
	var doc userDocument
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "profilePictureUrl", Value: url},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err, "user not found")
	}
	return doc.toUser(), nil
}
