package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/artem13815/travelinfo/pkg/auth"
)

const usersCollection = "users"

// userDocument is the stored shape of a user.
type userDocument struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Username     string        `bson:"username"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	CreatedAt    time.Time     `bson:"created_at"`
}

func (d userDocument) toDomain() auth.User {
	return auth.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// UserRepository implements auth.UserRepository backed by a MongoDB collection.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository ensures the unique email index exists before returning.
func NewUserRepository(ctx context.Context, db *mongo.Database) (*UserRepository, error) {
	coll := db.Collection(usersCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("users_email_key"),
	})
	if err != nil {
		return nil, fmt.Errorf("ensure users email index: %w", err)
	}
	return &UserRepository{coll: coll}, nil
}

func (r *UserRepository) Create(ctx context.Context, user auth.User) (auth.User, error) {
	doc := userDocument{
		ID:           bson.NewObjectID(),
		Username:     user.Username,
		Email:        auth.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return auth.User{}, insertError(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: auth.NormalizeEmail(email)}})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (auth.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return auth.User{}, auth.ErrNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (auth.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return auth.User{}, findError(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	return err
}

// insertError maps a unique index violation to auth.ErrUserAlreadyExists.
func insertError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return auth.ErrUserAlreadyExists
	}
	return err
}

func findError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return auth.ErrNotFound
	}
	return err
}
