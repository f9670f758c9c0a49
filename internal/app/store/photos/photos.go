// Package photos stores report photos and hands back the reference kept on
// the Issue.
package photos

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSize is the largest photo accepted.
const MaxSize = 10 << 20

// Backend is the write half of a waffle storage backend.
type Backend interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
}

// Store names and writes photos.
type Store struct {
	backend Backend
	log     *zap.Logger
}

// New creates a Store writing through backend.
func New(backend Backend, logger *zap.Logger) *Store {
	return &Store{backend: backend, log: logger}
}

// Save writes data and returns its reference: photos/<uuid8>-<filename>.
func (s *Store) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("photo %q is empty", filename)
	}
	if len(data) > MaxSize {
		return "", fmt.Errorf("photo %q exceeds %d bytes", filename, MaxSize)
	}
	ref := path.Join("photos", fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename)))

	if err := s.backend.Put(ctx, ref, bytes.NewReader(data), &storage.PutOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}
	s.log.Debug("photo stored", zap.String("ref", ref), zap.Int("size", len(data)))
	return ref, nil
}

// Remove deletes a photo written by Save.
func (s *Store) Remove(ctx context.Context, ref string) error {
	if err := s.backend.Delete(ctx, ref); err != nil {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	s.log.Debug("photo removed", zap.String("ref", ref))
	return nil
}

/* ------------------------------ local disk ------------------------------ */

// Dir is a Backend writing under a root directory.
type Dir struct {
	Root string
}

// Put implements Backend.
func (d Dir) Put(ctx context.Context, p string, r io.Reader, _ *storage.PutOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(d.Root, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Delete implements Backend. A missing file is not an error.
func (d Dir) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(d.Root, filepath.FromSlash(p)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// sanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filepath.ToSlash(filename))
	if filename == "." || filename == "/" {
		return "photo"
	}

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
