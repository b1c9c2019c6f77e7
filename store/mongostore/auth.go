package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wranglebase/wranglebase/store"
)

const usersCollection = "users"

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Password string             `bson:"password"`
}

// EnsureAuth creates the users collection and its unique index on name.
// Safe to call repeatedly.
func (s *Store) EnsureAuth(ctx context.Context) error {
	exists, err := s.collectionExists(ctx, usersCollection)
	if err != nil {
		return err
	}
	if !exists {
		if err := s.db.CreateCollection(ctx, usersCollection); err != nil {
			return fmt.Errorf("create users collection: %w", err)
		}
	}
	_, err = s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure users index: %w", err)
	}
	return nil
}

// InsertUser creates a credential document. A duplicate name surfaces as
// store.ErrAlreadyExists.
func (s *Store) InsertUser(ctx context.Context, name, passwordHash string) (*store.User, error) {
	res, err := s.db.Collection(usersCollection).
		InsertOne(ctx, bson.M{"name": name, "password": passwordHash})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("user %q: %w", name, store.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	u := &store.User{Name: name, PasswordHash: passwordHash}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	return u, nil
}

// UserByName returns the named user, or (nil, nil) when absent.
func (s *Store) UserByName(ctx context.Context, name string) (*store.User, error) {
	var doc userDoc
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &store.User{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		PasswordHash: doc.Password,
	}, nil
}
