package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/fieldbook/internal/ports/secondary"
)

// FSStore implements secondary.MediaStore on the local filesystem.
// The storage reference is the file's key relative to the root; the
// share link is a file:// URL, which is as shareable as a local store
// gets.
type FSStore struct {
	root   string
	prefix string
}

// NewFS returns a filesystem media store rooted at root, creating the
// directory if needed.
func NewFS(root, prefix string) (*FSStore, error) {
	if root == "" {
		root = "./mediadata"
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media root: %w", err)
	}
	return &FSStore{root: root, prefix: prefix}, nil
}

// Upload stores content under the given filename and returns its
// storage reference and link.
func (s *FSStore) Upload(ctx context.Context, content []byte, filename, contentType string) (*secondary.MediaObject, error) {
	name, err := sanitizeName(filename)
	if err != nil {
		return nil, err
	}

	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	// Never overwrite an earlier upload with the same name; uploads of
	// the same file are distinct objects.
	if _, err := os.Stat(target); err == nil {
		key = uniquify(key)
		target = filepath.Join(s.root, filepath.FromSlash(key))
	}

	if err := os.WriteFile(target, content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write media file: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	return &secondary.MediaObject{
		ID:   key,
		Link: "file://" + filepath.ToSlash(abs),
	}, nil
}

// uniquify inserts a short random tag before the extension.
func uniquify(key string) string {
	ext := path.Ext(key)
	base := strings.TrimSuffix(key, ext)
	return fmt.Sprintf("%s-%s%s", base, uuid.NewString()[:8], ext)
}

// Ensure FSStore implements the interface
var _ secondary.MediaStore = (*FSStore)(nil)
