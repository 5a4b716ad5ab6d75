// Package vault defines the vault client interface.
package vault

import (
	"context"
)

// Client is a higher-level vault client that wraps the Vault interface.
type Client interface {
	// GetSecret retrieves a secret from the vault by URI.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault client connection.
	Close() error
}
