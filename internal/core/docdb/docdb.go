// Package docdb defines the document database interface for the transcript
// archive.
package docdb

import (
	"context"

	"github.com/coopassist/verify-service/internal/domain/models"
)

// SortOrder represents the sort direction.
type SortOrder string

const (
	// SortOrderAsc represents ascending order.
	SortOrderAsc SortOrder = "asc"
	// SortOrderDesc represents descending order.
	SortOrderDesc SortOrder = "desc"
)

// ListTranscriptOptions contains options for listing transcript entries.
type ListTranscriptOptions struct {
	RoomID  string
	Limit   int64
	Skip    int64
	OrderBy SortOrder // Order by createdAt
}

// TranscriptsCollection defines the interface for transcript operations.
type TranscriptsCollection interface {
	// Add inserts one transcript entry.
	Add(ctx context.Context, entry *models.TranscriptEntry) error

	// AddMany inserts several entries in one call (one turn's messages).
	AddMany(ctx context.Context, entries []*models.TranscriptEntry) error

	// List retrieves entries for a room with pagination.
	List(ctx context.Context, opts *ListTranscriptOptions) ([]*models.TranscriptEntry, error)

	// CountByRoom returns the number of entries archived for a room.
	CountByRoom(ctx context.Context, roomID string) (int64, error)

	// EnsureIndexes creates necessary indexes for the collection.
	EnsureIndexes(ctx context.Context) error
}
