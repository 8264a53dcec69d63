// Package local stores uploaded files on the local filesystem.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

type diskStorage struct {
	root string
}

// NewDiskStorage returns an ObjectStorage rooted at dir, creating it if needed.
func NewDiskStorage(dir string) (port.ObjectStorage, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &diskStorage{root: abs}, nil
}

// resolve maps a key to a path inside root, rejecting traversal.
func (s *diskStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("empty storage key")
	}
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key %q escapes root", key)
	}
	return p, nil
}

func (s *diskStorage) Upload(ctx context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(input.Key)
	if err != nil {
		return nil, fmt.Errorf("disk upload: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("disk upload: %w", err)
	}

	// Write to a temp file first so a partial write never shows up under key.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("disk upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, input.Body); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("disk upload write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("disk upload close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("disk upload rename: %w", err)
	}
	return &port.UploadOutput{Location: path}, nil
}

func (s *diskStorage) Download(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolve(key)
	if err != nil {
		return nil, fmt.Errorf("disk download: %w", err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("disk download %s: %w", key, domain.ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("disk download: %w", err)
	}
	return data, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *diskStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.resolve(key)
	if err != nil {
		return fmt.Errorf("disk delete: %w", err)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("disk delete: %w", err)
	}
	return nil
}
