// Package vault defines the interface for out-of-band secret resolution.
// The tenant-API shared secret and the session encryption key are supplied
// through a vault reference rather than inline configuration.
package vault

import (
	"context"
)

// Vault defines the interface for secret resolution.
type Vault interface {
	// GetSecret retrieves a secret by URI (e.g. "dotenv://TENANT_API_SHARED_SECRET").
	// Returns the secret value or an error if not found.
	GetSecret(ctx context.Context, uri string) (string, error)

	// Ping checks if the vault connection is alive.
	Ping(ctx context.Context) error

	// Close closes the vault connection.
	Close() error
}
