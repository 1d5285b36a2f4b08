// Package storage persists product images. The default backend is the
// local filesystem; an S3 backend can be enabled by configuration and
// the server falls back to local storage when S3 initialisation fails.
package storage

import (
	"context"
	"io"
)

// ImageStore stores and removes product images. Save returns a
// reference (a URL path or object URL) that is persisted on the
// product and handed to clients as-is.
type ImageStore interface {
	// Save writes the image content under the given file name and
	// returns the reference to persist.
	Save(ctx context.Context, filename string, content io.Reader) (string, error)

	// Delete removes a previously saved image by its reference.
	// Deleting an unknown reference is not an error.
	Delete(ctx context.Context, ref string) error
}
