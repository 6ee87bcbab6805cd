// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/internal/platform/ctxutil"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "0190f3c2-6c1e-7a4b-9f5e-2b9c1d7e8a10")
	assert.Equal(t, "0190f3c2-6c1e-7a4b-9f5e-2b9c1d7e8a10", ctxutil.GetRequestID(ctx))
}

func TestLogger(t *testing.T) {
	ctx := context.Background()
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	assert.Same(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))

	// keys do not collide with plain string keys
	//nolint:staticcheck
	ctx = context.WithValue(ctx, "logger", "not a logger")
	assert.Same(t, slog.Default(), ctxutil.GetLogger(ctx))
}
