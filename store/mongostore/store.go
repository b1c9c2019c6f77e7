// Package mongostore implements the document store.Store over the official
// MongoDB driver. There is no schema catalog: field introspection samples a
// single document, and the generated _id is exposed in its hex form so it
// stays JSON-safe.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/wranglebase/wranglebase/store"
)

// idField is the generated document identifier; it is immutable and never
// written from form input.
const idField = "_id"

// Config holds connection settings for the document backend.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// URI renders the mongodb connection string for cfg.
func (cfg Config) URI() string {
	if cfg.User != "" && cfg.Password != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%d/", cfg.User, cfg.Password, cfg.Host, cfg.Port)
	}
	return fmt.Sprintf("mongodb://%s:%d/", cfg.Host, cfg.Port)
}

// Store is the document adapter.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Open connects to MongoDB and selects the configured database.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI()))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(cfg.Database)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// Tables lists user collections sorted by name, excluding system.* ones.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	user := []string{}
	for _, name := range names {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		user = append(user, name)
	}
	sort.Strings(user)
	return user, nil
}

// CreateTable creates the collection explicitly. Mongo would also create it
// lazily on first insert, but an explicit create lets an empty collection
// show up in listings. Column specs have no meaning here and are ignored.
func (s *Store) CreateTable(ctx context.Context, table string, _ []store.ColumnSpec) error {
	if !store.ValidIdentifier(table) {
		return store.Validationf("invalid collection name %q", table)
	}
	exists, err := s.collectionExists(ctx, table)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := s.db.CreateCollection(ctx, table); err != nil {
		return fmt.Errorf("create collection %s: %w", table, err)
	}
	return nil
}

func (s *Store) collectionExists(ctx context.Context, name string) (bool, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	return len(names) > 0, nil
}

// Columns approximates the collection schema from one arbitrary existing
// document. Fields missing from the sampled document are silently omitted;
// an empty collection yields an empty slice. This is a documented
// approximation, not a schema guarantee.
func (s *Store) Columns(ctx context.Context, table string) ([]store.Column, error) {
	if !store.ValidIdentifier(table) {
		return nil, store.Validationf("invalid collection name %q", table)
	}
	var sample bson.D
	err := s.db.Collection(table).FindOne(ctx, bson.D{}).Decode(&sample)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []store.Column{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", table, err)
	}
	return fieldsFromSample(sample), nil
}

// PrimaryKeys reports the generated identifier field; every document has one.
func (s *Store) PrimaryKeys(ctx context.Context, table string) ([]string, error) {
	if !store.ValidIdentifier(table) {
		return nil, store.Validationf("invalid collection name %q", table)
	}
	return []string{idField}, nil
}

// List returns at most limit documents ordered by _id ascending, with
// identifiers rendered as hex strings.
func (s *Store) List(ctx context.Context, table string, limit int) ([]store.Record, error) {
	if !store.ValidIdentifier(table) {
		return nil, store.Validationf("invalid collection name %q", table)
	}
	if limit <= 0 {
		limit = store.DefaultListLimit
	}
	opts := options.Find().
		SetSort(bson.D{{Key: idField, Value: 1}}).
		SetLimit(int64(limit))
	cur, err := s.db.Collection(table).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer cur.Close(ctx)

	records := []store.Record{}
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", table, err)
		}
		records = append(records, recordFromDocument(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", table, err)
	}
	return records, nil
}

// Insert stores one document built from raw form values, coerced per their
// hints. The _id field and empty values never make it into the document.
func (s *Store) Insert(ctx context.Context, table string, fields map[string]string, hints map[string]store.TypeHint) (string, error) {
	if !store.ValidIdentifier(table) {
		return "", store.Validationf("invalid collection name %q", table)
	}
	doc := store.BuildRecord(fields, hints, []string{idField})
	if doc == nil {
		return "", store.Validationf("no data to insert")
	}
	res, err := s.db.Collection(table).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", table, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

// Update merges updates over the identified document with $set. The _id key
// is stripped first since identifiers are immutable. Returns whether any
// field actually changed; a missing document also reports false.
func (s *Store) Update(ctx context.Context, table, id string, updates store.Record) (bool, error) {
	if !store.ValidIdentifier(table) {
		return false, store.Validationf("invalid collection name %q", table)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, store.Validationf("invalid document id %q", id)
	}
	set := make(bson.M, len(updates))
	for k, v := range updates {
		if k == idField {
			continue
		}
		set[k] = v
	}
	if len(set) == 0 {
		return false, store.Validationf("nothing to update")
	}
	res, err := s.db.Collection(table).UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update %s: %w", table, err)
	}
	return res.ModifiedCount > 0, nil
}

// Delete removes the identified document; (false, nil) means none existed.
func (s *Store) Delete(ctx context.Context, table, id string) (bool, error) {
	if !store.ValidIdentifier(table) {
		return false, store.Validationf("invalid collection name %q", table)
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, store.Validationf("invalid document id %q", id)
	}
	res, err := s.db.Collection(table).DeleteOne(ctx, bson.M{idField: oid})
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return res.DeletedCount > 0, nil
}
