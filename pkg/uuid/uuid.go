// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid issues identifiers for staged harvest batches.

Version 7 values are used so batch IDs sort by staging time, which keeps Redis
key scans and archive listings in chronological order.
*/
package uuid

import "github.com/google/uuid"

// New returns a fresh UUIDv7 string. It panics only when the system entropy
// source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate batch id: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s parses as a UUID. Handlers use it to reject
// malformed batch IDs before touching the staging store.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
