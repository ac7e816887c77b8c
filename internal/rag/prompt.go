// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package rag

import (
	"fmt"
	"strings"
)

const promptTemplate = `Based on the following context, answer the question concisely.

Context:
%s

Question: %s`

// BuildPrompt composes the generation prompt from the retrieved chunks and
// the user's question. Chunks are joined with newlines, in retrieval order.
// No truncation: a prompt exceeding the model's context window fails
// upstream.
func BuildPrompt(chunks []string, question string) string {
	return fmt.Sprintf(promptTemplate, strings.Join(chunks, "\n"), question)
}
