// Package media stores uploaded post attachments and hands back the
// filename/URL pair a post records. Uploads are capped in size, restricted
// to image and video content, and staged so every failure path after
// receipt removes the stored file again.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/socialhub/backend/internal/models"
)

// Errors returned for rejected uploads. Handlers map these to validation
// failures.
var (
	ErrTooLarge        = errors.New("media file exceeds the size limit")
	ErrUnsupportedType = errors.New("only image and video files are allowed")
)

// File identifies a stored upload.
type File struct {
	Filename  string
	URL       string
	MediaType string // models.MediaTypeImage or models.MediaTypeVideo
}

// Store persists uploaded media blobs. Save enforces the size ceiling and
// the image/video allow-list; Remove deletes by filename and tolerates
// files that are already gone.
type Store interface {
	Save(ctx context.Context, upload *multipart.FileHeader) (*File, error)
	Remove(ctx context.Context, filename string) error
}

// inspect reads the upload fully, enforces maxSize, and classifies the
// content. Detection sniffs magic numbers first and falls back to the
// declared Content-Type for containers the sniffer does not know.
func inspect(upload *multipart.FileHeader, maxSize int64) (data []byte, mediaType, ext string, err error) {
	if upload.Size > maxSize {
		return nil, "", "", ErrTooLarge
	}

	f, err := upload.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("error reading upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", "", ErrTooLarge
	}

	mime := upload.Header.Get("Content-Type")
	kind, err := filetype.Match(data)
	if err == nil && kind != types.Unknown {
		mime = kind.MIME.Value
		ext = "." + kind.Extension
	}
	if ext == "" {
		ext = filepath.Ext(upload.Filename)
	}

	switch {
	case strings.HasPrefix(mime, "image/"):
		mediaType = models.MediaTypeImage
	case strings.HasPrefix(mime, "video/"):
		mediaType = models.MediaTypeVideo
	default:
		return nil, "", "", ErrUnsupportedType
	}
	return data, mediaType, ext, nil
}

// newFilename builds a unique stored name for an upload.
func newFilename(ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return "media-" + id + ext, nil
}

// Staged is a stored upload whose ownership has not been committed yet.
// Callers stage the upload, defer Cleanup, and Commit once every step of
// the request has succeeded; any earlier return removes the file again.
type Staged struct {
	store     Store
	file      *File
	committed bool
}

// Stage saves the upload and wraps it for scoped cleanup.
func Stage(ctx context.Context, store Store, upload *multipart.FileHeader) (*Staged, error) {
	file, err := store.Save(ctx, upload)
	if err != nil {
		return nil, err
	}
	return &Staged{store: store, file: file}, nil
}

// File returns the stored file. Nil when nothing was staged.
func (s *Staged) File() *File {
	if s == nil {
		return nil
	}
	return s.file
}

// Commit transfers ownership of the file to the caller; Cleanup becomes a
// no-op.
func (s *Staged) Commit() {
	if s != nil {
		s.committed = true
	}
}

// Cleanup removes the stored file unless Commit ran. Removal is
// best-effort: the primary error response must not be blocked on it.
func (s *Staged) Cleanup(ctx context.Context) {
	if s == nil || s.committed {
		return
	}
	_ = s.store.Remove(ctx, s.file.Filename)
}
