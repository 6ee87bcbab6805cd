// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert parses optional query-string values without error plumbing.

Use it only where a malformed value and an absent value deserve the same
fallback (e.g. ?limit=abc on a preview). Provider payloads go through the
artifact coercion functions instead, which keep nil distinct from zero.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD parses s as a base-10 int, returning def when s is empty or malformed.
func ToIntD(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
