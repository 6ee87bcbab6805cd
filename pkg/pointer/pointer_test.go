// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/pkg/pointer"
)

func TestTo(t *testing.T) {
	first, second := pointer.To(int64(7)), pointer.To(int64(7))
	assert.Equal(t, int64(7), *first)
	assert.NotSame(t, first, second)
}

func TestFallback(t *testing.T) {
	assert.Equal(t, int64(0), pointer.Fallback(nil, int64(0)))
	assert.Equal(t, int64(3), pointer.Fallback(pointer.To(int64(3)), 0))
}
