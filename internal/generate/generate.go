// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package generate produces free-text answers from a composed prompt via
// an external generative model.
package generate

import "context"

// Generator turns a prompt into a completion. One attempt per call; any
// upstream failure, including a prompt exceeding the model's context
// window, propagates to the caller.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
