package ports

import (
	"context"

	"rpk/internal/types"
)

// TransportPort issues versioned commands against the remote package
// authority. Implementations classify failures: a server answer of
// "no such package" carries CodeNotFound, while any transport-level
// failure (DNS, connection refused, timeout) carries CodeUnavailable.
// The sync engine branches on exactly this distinction.
type TransportPort interface {
	// Info fetches the current remote version report for a package.
	Info(ctx context.Context, desc types.Descriptor) (types.RemoteInfo, error)

	// Download fetches the encrypted archive payload for a package.
	// The returned bytes are ciphertext; decryption is the caller's job.
	Download(ctx context.Context, desc types.Descriptor) ([]byte, error)

	// Watch issues a long-poll watch command and returns the version
	// report the server answered with.
	Watch(ctx context.Context, desc types.Descriptor) (types.RemoteInfo, error)
}
