// Package storage persists uploaded submission files and hands back the URL
// recorded on the submission row.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FileStore saves an uploaded blob under a collision-free name and returns
// the URL it will be served from.
type FileStore interface {
	Save(ctx context.Context, filename string, reader io.Reader) (string, error)
}

// LocalStore writes uploads to a directory on disk, served under a public
// base URL.
type LocalStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocalStore creates the upload directory if needed and returns the store.
func NewLocalStore(dir, baseURL string, logger zerolog.Logger) (*LocalStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must be provided")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With().Str("component", "local_store").Logger(),
	}, nil
}

// Save writes the blob under a random-id prefixed name so concurrent uploads
// of the same filename never contend.
func (s *LocalStore) Save(ctx context.Context, filename string, reader io.Reader) (string, error) {
	name := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))
	path := filepath.Join(s.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	s.logger.Info().Str("file", name).Msg("submission file stored")

	return s.baseURL + "/" + name, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '-'
	}, base)

	if strings.Trim(base, "-._") == "" {
		base = "upload"
	}

	return base
}
