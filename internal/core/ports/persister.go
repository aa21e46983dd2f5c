package ports

import "context"

// Persister stores the cache snapshot as a single opaque blob.
//
//go:generate go run go.uber.org/mock/mockgen -source=persister.go -destination=mocks/mock_persister.go -package=mocks
type Persister interface {
	// Load returns the persisted blob.
	// Returns nil, nil if nothing has been saved yet.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the persisted blob.
	Save(ctx context.Context, blob []byte) error

	// Remove deletes the persisted blob. Removing a missing blob is not an error.
	Remove(ctx context.Context) error
}
