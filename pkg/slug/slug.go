// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slug turns display names into ASCII path segments.

Query labels ("Artifacts Created After 1500") and classification names
("Arms and Armor") are slugged to address catalog entries and archive objects.
*/
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	separators  = regexp.MustCompile(`[^a-z0-9]+`)
	removeMarks = transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
)

// From folds accents, lowercases s and joins its alphanumeric runs with single
// hyphens: "Vessels & Bowls (Côte)" becomes "vessels-bowls-cote".
func From(s string) string {
	folded, _, err := transform.String(removeMarks, s)
	if err != nil {
		folded = s
	}
	return strings.Trim(separators.ReplaceAllString(strings.ToLower(folded), "-"), "-")
}
