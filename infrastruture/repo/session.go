package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/beka-birhanu/gridpath/service/i"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ i.SessionRepo = &SessionRepo{}

// SessionRepo stores session records, one document per session.
type SessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a new SessionRepo with the given MongoDB client, database name, and collection name.
func NewSessionRepo(client *mongo.Client, dbName, collectionName string) *SessionRepo {
	return &SessionRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes creates the owner index used for listing and quota checks.
func (s *SessionRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

// Save replaces the stored record, inserting it when absent.
func (s *SessionRepo) Save(ctx context.Context, record *i.SessionRecord) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": record.ID}, record, opts); err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	return nil
}

// ByID retrieves a session record by its ID.
func (s *SessionRepo) ByID(ctx context.Context, id uuid.UUID) (*i.SessionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var record i.SessionRecord
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, i.ErrRecordNotFound
		}
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return &record, nil
}

// ByOwner lists an operator's records, oldest first.
func (s *SessionRepo) ByOwner(ctx context.Context, owner uuid.UUID) ([]*i.SessionRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{"owner": owner}, opts)
	if err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}

	records := make([]*i.SessionRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("unexpected error: %w", err)
	}
	return records, nil
}

// CountByOwner returns how many sessions an operator owns.
func (s *SessionRepo) CountByOwner(ctx context.Context, owner uuid.UUID) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	return s.collection.CountDocuments(ctx, bson.M{"owner": owner})
}

// Delete removes a session record.
func (s *SessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("unexpected error: %w", err)
	}
	if res.DeletedCount == 0 {
		return i.ErrRecordNotFound
	}
	return nil
}
