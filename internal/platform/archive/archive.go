// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package archive keeps the raw provider payload of every harvested batch.

Archived batches let operators replay an ingest after a normaliser change or a
failed persist without calling the provider again.

Drivers:

  - none: archiving disabled ([Nop]).
  - fs: files under a local root directory ([FS]).
  - s3: objects in an S3-compatible bucket ([S3]).

Keys are slash-separated and relative, see [Key].
*/
package archive

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/taibuivan/relic/pkg/slug"
)

// Driver identifies a concrete archive backend.
type Driver string

const (
	DriverNone Driver = "none"
	DriverFS   Driver = "fs"
	DriverS3   Driver = "s3"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("archive: object not found")

// Archive stores and retrieves raw batch payloads.
type Archive interface {
	Put(ctx context.Context, key string, body []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Driver() Driver
}

// Key returns the archive key of one batch: harvests/<classification-slug>/<batchID>.json.
func Key(classification, batchID string) string {
	return path.Join("harvests", slug.From(classification), batchID+".json")
}

// sanitizeKey rejects empty, absolute and escaping keys.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("archive: empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("archive: invalid absolute key %q", key)
	}
	clean := path.Clean(key)
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.Contains(key, "..") {
		return "", fmt.Errorf("archive: invalid key traversal %q", key)
	}
	return clean, nil
}

// # Nop

// Nop discards every payload.
type Nop struct{}

func (Nop) Put(context.Context, string, []byte) error { return nil }

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }

func (Nop) Driver() Driver { return DriverNone }
