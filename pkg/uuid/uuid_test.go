// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/relic/pkg/uuid"
)

func TestNew_IsVersion7(t *testing.T) {
	id := uuid.New()

	parsed, err := googleuuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, googleuuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, uuid.New())
}

func TestValid(t *testing.T) {
	assert.True(t, uuid.Valid(uuid.New()))
	assert.False(t, uuid.Valid("batch-1"))
	assert.False(t, uuid.Valid(""))
}
