package media

import (
	"context"
	"path"
	"sync"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// MemoryStore implements secondary.MediaStore in process memory, for
// tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory media store.
func NewMemory() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload stores content under the given filename.
func (s *MemoryStore) Upload(ctx context.Context, content []byte, filename, contentType string) (*secondary.MediaObject, error) {
	name, err := sanitizeName(filename)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := name
	if _, ok := s.objects[key]; ok {
		key = uniquify(key)
	}
	copied := make([]byte, len(content))
	copy(copied, content)
	s.objects[key] = copied

	return &secondary.MediaObject{
		ID:   key,
		Link: "memory://" + path.Clean(key),
	}, nil
}

// Object returns a stored object's content, for test assertions.
func (s *MemoryStore) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	content, ok := s.objects[key]
	return content, ok
}

// Ensure MemoryStore implements the interface
var _ secondary.MediaStore = (*MemoryStore)(nil)
