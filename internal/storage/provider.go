// Package storage defines the interface for persisting crawl artifacts.
// The abstraction keeps the pipeline independent of where the HTML cache
// and the assembled document land.
package storage

import (
	"context"
)

// Provider abstracts the operation of saving a named artifact.
type Provider interface {
	// Save writes data under the given slash-separated object name.
	Save(ctx context.Context, objectName string, data []byte) error
}

// NoOpProvider discards every write. It is useful for dry runs and tests
// that exercise the pipeline without touching the filesystem.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}
