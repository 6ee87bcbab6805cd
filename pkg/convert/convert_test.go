// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/relic/pkg/convert"
)

func TestToIntD(t *testing.T) {
	cases := map[string]int{
		"":     5,
		"  ":   5,
		"12":   12,
		" 12 ": 12,
		"-3":   -3,
		"1.5":  5,
		"abc":  5,
	}
	for input, expected := range cases {
		assert.Equal(t, expected, convert.ToIntD(input, 5), "input %q", input)
	}
}
