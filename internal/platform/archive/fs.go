// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS archives payloads as files under a root directory.
type FS struct {
	root string
}

// NewFS returns a filesystem archive rooted at root, creating it if needed.
func NewFS(root string) (*FS, error) {
	if root == "" {
		root = "./data/archive"
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("archive: create root: %w", err)
	}
	return &FS{root: root}, nil
}

func (s *FS) Driver() Driver { return DriverFS }

// Put writes the payload atomically through a temp file and rename.
func (s *FS) Put(ctx context.Context, key string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.pathFor(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("archive: mkdir: %w", err)
	}

	temp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("archive: create temp: %w", err)
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(body); err != nil {
		_ = temp.Close()
		return fmt.Errorf("archive: write: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("archive: close: %w", err)
	}
	if err := os.Rename(temp.Name(), target); err != nil {
		return fmt.Errorf("archive: rename: %w", err)
	}
	return nil
}

func (s *FS) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	target, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("archive: read: %w", err)
	}
	return body, nil
}

func (s *FS) pathFor(key string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
