package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
)

// LocalStore persists media under a directory served statically at
// urlBase. This is the default backend: stored posts expose media_url as
// a relative path clients resolve against the serving origin.
type LocalStore struct {
	dir     string
	urlBase string
	maxSize int64
}

// NewLocalStore creates the upload directory if needed and returns a
// LocalStore writing into it.
func NewLocalStore(dir, urlBase string, maxSize int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating upload directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir, urlBase: urlBase, maxSize: maxSize}, nil
}

// Save writes the upload to disk under a unique name.
func (s *LocalStore) Save(_ context.Context, upload *multipart.FileHeader) (*File, error) {
	data, mediaType, ext, err := inspect(upload, s.maxSize)
	if err != nil {
		return nil, err
	}

	name, err := newFilename(ext)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("error writing media file: %w", err)
	}

	return &File{
		Filename:  name,
		URL:       s.urlBase + "/" + name,
		MediaType: mediaType,
	}, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error.
func (s *LocalStore) Remove(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
