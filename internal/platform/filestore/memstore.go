package filestore

import (
	"context"
	"io"
	"sync"
)

// MemStore is a thread-safe, in-memory Store for tests.
type MemStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string][]byte)}
}

func (s *MemStore) Save(_ context.Context, fileName, contentType string, content io.Reader) (string, int64, error) {
	if err := Validate(fileName, contentType); err != nil {
		return "", 0, err
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", 0, err
	}
	if int64(len(data)) > MaxFileSize {
		return "", 0, ErrFileTooLarge
	}

	storedName := StorageName(fileName)
	s.mu.Lock()
	s.files[storedName] = data
	s.mu.Unlock()

	return storedName, int64(len(data)), nil
}

func (s *MemStore) Remove(_ context.Context, storedName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[storedName]; !ok {
		return ErrFileNotFound
	}
	delete(s.files, storedName)
	return nil
}

// Len reports how many files are currently stored.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
