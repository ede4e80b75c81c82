// File: internal/storage/image.go

// Package storage keeps uploaded house images outside the database. Rows
// only reference images by name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidName = errors.New("invalid image name")

type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Remove(ctx context.Context, name string) error
}

// NewImageName 產生新的唯一檔名，副檔名 ext 應來自偵測到的內容類型
// （例如 ".png"），而不是使用者上傳的檔名。不合法的 ext 會被捨棄。
func NewImageName(ext string) string {
	if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) || filepath.Ext(ext) != ext {
		ext = ""
	}
	return uuid.NewString() + strings.ToLower(ext)
}

// LocalImageStore stores images as files in one directory, which is also
// served under /storage.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("NewLocalImageStore: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Dir() string { return s.dir }

func (s *LocalImageStore) path(name string) (string, error) {
	base := filepath.Base(name)
	if name == "" || base != name || base == "." || base == ".." {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, base), nil
}

// Save writes the image through a temp file so readers never see a
// partial file.
func (s *LocalImageStore) Save(ctx context.Context, name string, r io.Reader) error {
	dst, err := s.path(name)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}

// Remove deletes the image. A missing file is not an error.
func (s *LocalImageStore) Remove(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("Remove: %w", err)
	}
	return nil
}
