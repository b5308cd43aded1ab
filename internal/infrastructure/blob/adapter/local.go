package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"go-parley/internal/infrastructure/blob/port"
)

// LocalStore keeps blobs on the local filesystem under root, grouped into a
// subdirectory per media family. URLs are baseURL + "/" + relative path.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates the root directory tree if missing.
func NewLocalStore(root string, baseURL string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("blob: storage root is required")
	}
	for _, sub := range []string{"images", "audio", "videos", "files"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("blob: create dir: %w", err)
		}
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

var _ port.Store = (*LocalStore)(nil)

func (s *LocalStore) Save(ctx context.Context, r io.Reader, originalName string, contentType string) (port.StoredBlob, error) {
	if err := ctx.Err(); err != nil {
		return port.StoredBlob{}, err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
	rel := filepath.Join(subdirFor(contentType), name)

	f, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return port.StoredBlob{}, fmt.Errorf("blob: create: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.root, rel))
		return port.StoredBlob{}, fmt.Errorf("blob: write: %w", err)
	}

	return port.StoredBlob{
		URL:  s.baseURL + "/" + filepath.ToSlash(rel),
		Name: originalName,
		Size: n,
	}, nil
}

func (s *LocalStore) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := s.relPath(url)
	if err != nil {
		return nil, err
	}
	return os.Open(filepath.Join(s.root, rel))
}

func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel, err := s.relPath(url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, rel)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("blob: delete: %w", err)
	}
	return nil
}

// relPath maps a URL back to a path under root, refusing anything that would
// escape it.
func (s *LocalStore) relPath(url string) (string, error) {
	trimmed := strings.TrimPrefix(url, s.baseURL+"/")
	if trimmed == url || trimmed == "" {
		return "", fmt.Errorf("blob: url %q is not under this store", url)
	}
	rel := filepath.Clean(filepath.FromSlash(trimmed))
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("blob: url %q is not under this store", url)
	}
	return rel, nil
}

func subdirFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "images"
	case strings.HasPrefix(contentType, "audio/"):
		return "audio"
	case strings.HasPrefix(contentType, "video/"):
		return "videos"
	default:
		return "files"
	}
}
