package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store writes objects below a root directory. Intended for local runs where
// no bucket is configured.
type Store struct {
	root string
}

func New(root string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Upload(ctx context.Context, object, _ string, body io.Reader) error {
	path, err := s.resolve(object)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return fmt.Errorf("write object: %w", err)
	}
	return f.Close()
}

func (s *Store) Delete(ctx context.Context, object string) error {
	path, err := s.resolve(object)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *Store) resolve(object string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimSpace(object))
	if clean == "/" {
		return "", errors.New("object name is required")
	}
	return filepath.Join(s.root, clean), nil
}
