// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package chunk splits normalized text into bounded-length pieces for
// embedding. Splitting is word-boundary aware and never breaks a word to
// honor the cap, so a single word longer than the cap becomes a chunk on
// its own.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// DefaultSize is the maximum chunk length, in runes, used when the caller
// does not configure one.
const DefaultSize = 1000

// Wrap splits text into chunks of at most max runes each. Words are kept
// intact, so a word longer than max yields a chunk exceeding the cap. All
// whitespace between words collapses to a single space; joining the
// returned chunks with a single space reconstructs the cleaned input.
func Wrap(text string, max int) []string {
	if max <= 0 {
		max = DefaultSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	for _, word := range words {
		wordLen := utf8.RuneCountInString(word)

		if curLen == 0 {
			cur.WriteString(word)
			curLen = wordLen
			continue
		}

		if curLen+1+wordLen <= max {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curLen += 1 + wordLen
			continue
		}

		chunks = append(chunks, cur.String())
		cur.Reset()
		cur.WriteString(word)
		curLen = wordLen
	}

	if curLen > 0 {
		chunks = append(chunks, cur.String())
	}

	return chunks
}
