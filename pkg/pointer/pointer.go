// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer builds and reads the optional values of normalized rows.

Nullable columns are modelled as pointers; these helpers keep the coercion code
free of temporary variables.
*/
package pointer

// To returns a pointer to v (e.g. pointer.To("Grey")).
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, or returns fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
