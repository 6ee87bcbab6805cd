// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued settings and query parameters.
package query

import "strings"

// StringSlice splits a comma-separated value into trimmed, non-empty items.
// Repeated items are kept once, in first-seen order.
//
//	StringSlice("coins, prints,,coins") // ["coins", "prints"]
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}

	var res []string
	seen := make(map[string]struct{})
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		res = append(res, clean)
	}
	return res
}
