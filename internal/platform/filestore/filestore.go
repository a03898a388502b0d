// Package filestore persists uploaded health-record files. It separates the
// pure validation step (extension and content-type allow-list) from the
// storage write, so the disk backend can be swapped for any blob store.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrFileNotFound    = errors.New("file not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidFileType = errors.New("file type is not allowed")
	ErrMissingFileName = errors.New("file name is required")
)

// MaxFileSize is the maximum allowed upload size in bytes (10 MB).
const MaxFileSize = 10 * 1024 * 1024

// allowedExtensions maps permitted file extensions to their expected content
// types. Only PDF and common image formats may be uploaded.
var allowedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
}

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// Validate checks the original file name and declared content type against
// the allow-list. It performs no I/O.
func Validate(fileName, contentType string) error {
	if fileName == "" {
		return ErrMissingFileName
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, ext)
	}
	if contentType != "" && !allowedContentTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, contentType)
	}
	return nil
}

// StorageName generates a collision-resistant name for a stored file,
// keeping the original extension: <unix-nanos>-<random>.<ext>.
func StorageName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixNano(), rand.Int63n(1_000_000_000), ext)
}

// Store is the narrow storage contract: write bytes under a generated name,
// and remove them again. Implementations must not overwrite existing files.
type Store interface {
	Save(ctx context.Context, fileName, contentType string, content io.Reader) (storedName string, size int64, err error)
	Remove(ctx context.Context, storedName string) error
}

// DiskStore writes uploads into a content directory on the local filesystem.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a store
// rooted there.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the content directory path, for static file serving.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Save(_ context.Context, fileName, contentType string, content io.Reader) (string, int64, error) {
	if err := Validate(fileName, contentType); err != nil {
		return "", 0, err
	}

	storedName := StorageName(fileName)
	path := filepath.Join(s.dir, storedName)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("create file %s: %w", storedName, err)
	}

	n, err := io.Copy(f, io.LimitReader(content, MaxFileSize+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("write file %s: %w", storedName, err)
	}
	if n > MaxFileSize {
		os.Remove(path)
		return "", 0, ErrFileTooLarge
	}

	return storedName, n, nil
}

func (s *DiskStore) Remove(_ context.Context, storedName string) error {
	// Reject anything that could escape the content directory.
	if storedName == "" || storedName != filepath.Base(storedName) {
		return ErrFileNotFound
	}
	path := filepath.Join(s.dir, storedName)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return fmt.Errorf("remove file %s: %w", storedName, err)
	}
	return nil
}
