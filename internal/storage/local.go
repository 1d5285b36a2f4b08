package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// URLPrefix is the public path under which locally stored images are served.
const URLPrefix = "/uploads/products/"

// localStore implements ImageStore on the local filesystem.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a filesystem-backed image store rooted at dir,
// creating the directory if needed.
func NewLocalStore(dir string, logger zerolog.Logger) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	logger = logger.With().Str("component", "local-image-store").Logger()
	logger.Info().Str("dir", dir).Msg("local image store initialised")

	return &localStore{
		dir:    dir,
		logger: logger,
	}, nil
}

// Save writes the image to disk and returns its public URL path.
func (s *localStore) Save(ctx context.Context, filename string, content io.Reader) (string, error) {
	// Reject anything that would escape the upload directory.
	if filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid image file name: %s", filename)
	}

	dst := filepath.Join(s.dir, filename)
	f, err := os.Create(dst)
	if err != nil {
		s.logger.Error().Err(err).Str("file", dst).Msg("failed to create image file")
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(dst)
		s.logger.Error().Err(err).Str("file", dst).Msg("failed to write image file")
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}

	s.logger.Debug().Str("file", dst).Msg("image saved")

	return URLPrefix + filename, nil
}

// Delete removes the image behind the reference. Missing files are ignored.
func (s *localStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, URLPrefix) {
		return nil
	}

	name := path.Base(ref)
	target := filepath.Join(s.dir, name)

	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.logger.Error().Err(err).Str("file", target).Msg("failed to delete image file")
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	s.logger.Debug().Str("file", target).Msg("image deleted")

	return nil
}
