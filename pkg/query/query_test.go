// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/pkg/query"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Empty(t, query.StringSlice(" , ,"))
	assert.Equal(t, []string{"coins", "prints"}, query.StringSlice("coins, prints,,coins"))
	assert.Equal(t, []string{"http://localhost:3000"}, query.StringSlice(" http://localhost:3000 "))
}
