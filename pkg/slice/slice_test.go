// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[string, string](nil, strings.ToUpper))
	assert.Equal(t, []string{}, slice.Map([]string{}, strings.ToUpper))
	assert.Equal(t, []int{5, 6}, slice.Map([]string{"coins", "prints"}, func(s string) int { return len(s) }))
}
