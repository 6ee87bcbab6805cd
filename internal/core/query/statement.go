// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import "unicode"

/*
statementCount counts the statements in text.

Semicolons inside string literals, quoted identifiers and comments do not
split statements, and a trailing semicolon does not open a new one. Postgres
dollar quoting is not recognised, so such bodies may count as several
statements; ad hoc input is rejected in that case rather than guessed at.
*/
func statementCount(text string) int {
	runes := []rune(text)

	count := 0
	pending := false
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; {
		case r == '\'' || r == '"' || r == '`':
			i = skipUntil(runes, i+1, r)
			pending = true
		case r == '[':
			i = skipUntil(runes, i+1, ']')
			pending = true
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			i = skipUntil(runes, i+2, '\n')
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i = skipBlockComment(runes, i+2)
		case r == ';':
			if pending {
				count++
				pending = false
			}
		case !unicode.IsSpace(r):
			pending = true
		}
	}
	if pending {
		count++
	}
	return count
}

// skipUntil returns the index of the next closing rune at or after from, or
// the last index when the quote is unterminated. Doubled quotes ('') re-enter
// the literal on the next iteration, which is equivalent.
func skipUntil(runes []rune, from int, closing rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == closing {
			return i
		}
	}
	return len(runes) - 1
}

func skipBlockComment(runes []rune, from int) int {
	for i := from; i+1 < len(runes); i++ {
		if runes[i] == '*' && runes[i+1] == '/' {
			return i + 1
		}
	}
	return len(runes) - 1
}
