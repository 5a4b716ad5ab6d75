// Package docdb defines the document database client interface.
package docdb

import (
	"context"
)

// Client defines the interface for a document database client.
type Client interface {
	// Transcripts returns the transcript collection.
	Transcripts() TranscriptsCollection

	// Ping verifies the database connection.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close(ctx context.Context) error

	// EnsureIndexes creates all necessary indexes.
	EnsureIndexes(ctx context.Context) error
}
