// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package harvest

import "strings"

// Classifications are the provider classifications offered for harvesting.
var Classifications = []string{
	"Paintings",
	"Sculpture",
	"Coins",
	"Jewelry",
	"Drawings",
	"Furniture",
	"Photographs",
	"Prints",
	"Textiles",
	"Ceramics",
	"Arms and Armor",
	"Manuscripts",
}

// ResolveClassification returns the canonical spelling of name, matched case-insensitively.
func ResolveClassification(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Classifications {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
