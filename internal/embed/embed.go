// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package embed maps text to fixed-dimension vectors via an external
// embedding model. Every adapter produces vectors of exactly Dimension
// floats; ingest and query must go through the same adapter instance so
// stored and query vectors live in the same space.
package embed

import "context"

// Dimension is the fixed output size of every embedding adapter. The
// vector store creates its collection with this size and rejects any
// vector that differs.
const Dimension = 384

// Embedder turns one or more strings into one vector per input,
// preserving order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// Model identifies the underlying embedding model, for logging.
	Model() string
}
