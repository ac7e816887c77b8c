// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package generate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webrag-dev/webrag/internal/generate"
	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := generate.NewGemini(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, wragerr.CodeConfigInvalidValue, wragerr.CodeOf(err))
}

func TestNewGeminiDefaultModel(t *testing.T) {
	g, err := generate.NewGemini(context.Background(), "test-key", "")
	require.NoError(t, err)
	assert.Equal(t, generate.DefaultModel, g.ModelName())
}

func TestNewGeminiCustomModel(t *testing.T) {
	g, err := generate.NewGemini(context.Background(), "test-key", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", g.ModelName())
}
