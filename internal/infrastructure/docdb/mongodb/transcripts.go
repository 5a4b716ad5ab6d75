// Package mongodb provides the MongoDB transcript collection.
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coopassist/verify-service/internal/core/docdb"
	"github.com/coopassist/verify-service/internal/domain/models"
)

// TranscriptsCollectionName is the name of the transcripts collection.
const TranscriptsCollectionName = "transcripts"

// TranscriptsCollection implements docdb.TranscriptsCollection for MongoDB.
type TranscriptsCollection struct {
	collection *mongo.Collection
}

// NewTranscriptsCollection creates a new transcripts collection wrapper.
func NewTranscriptsCollection(db *mongo.Database) *TranscriptsCollection {
	return &TranscriptsCollection{
		collection: db.Collection(TranscriptsCollectionName),
	}
}

// Add inserts one transcript entry.
func (c *TranscriptsCollection) Add(ctx context.Context, entry *models.TranscriptEntry) error {
	if _, err := c.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert transcript entry: %w", err)
	}
	return nil
}

// AddMany inserts several entries in one call.
func (c *TranscriptsCollection) AddMany(ctx context.Context, entries []*models.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		docs[i] = e
	}
	if _, err := c.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert transcript entries: %w", err)
	}
	return nil
}

// List retrieves entries for a room with pagination.
func (c *TranscriptsCollection) List(ctx context.Context, opts *docdb.ListTranscriptOptions) ([]*models.TranscriptEntry, error) {
	if opts == nil || opts.RoomID == "" {
		return nil, fmt.Errorf("room id is required")
	}

	order := 1
	if opts.OrderBy == docdb.SortOrderDesc {
		order = -1
	}

	findOpts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: order}})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}
	if opts.Skip > 0 {
		findOpts.SetSkip(opts.Skip)
	}

	cursor, err := c.collection.Find(ctx, bson.M{"roomId": opts.RoomID}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to find transcript entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*models.TranscriptEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode transcript entries: %w", err)
	}
	return entries, nil
}

// CountByRoom returns the number of entries archived for a room.
func (c *TranscriptsCollection) CountByRoom(ctx context.Context, roomID string) (int64, error) {
	count, err := c.collection.CountDocuments(ctx, bson.M{"roomId": roomID})
	if err != nil {
		return 0, fmt.Errorf("failed to count transcript entries: %w", err)
	}
	return count, nil
}

// EnsureIndexes creates necessary indexes for the collection.
func (c *TranscriptsCollection) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "roomId", Value: 1},
				{Key: "createdAt", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "turnId", Value: 1}},
		},
	}

	if _, err := c.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create transcript indexes: %w", err)
	}
	return nil
}
