// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package embed

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// DefaultGeminiModel is the embedding model used when none is configured.
// Its output dimensionality is requested as Dimension.
const DefaultGeminiModel = "gemini-embedding-001"

// Gemini embeds text through the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini embedder. Returns an error if the API key is
// missing.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "gemini: missing api key", wragerr.FieldProvider("gemini"))
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "gemini: creating client", wragerr.FieldProvider("gemini"))
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{Parts: []*genai.Part{{Text: t}}}
	}

	res, err := g.client.Models.EmbedContent(ctx, g.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(Dimension)),
	})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "gemini: embedding content",
			wragerr.FieldProvider("gemini"), wragerr.FieldModel(g.model))
	}

	if len(res.Embeddings) != len(texts) {
		return nil, wragerr.New(wragerr.CodeEmbedUpstreamFailure,
			fmt.Sprintf("gemini: got %d embeddings for %d inputs", len(res.Embeddings), len(texts)),
			wragerr.FieldModel(g.model))
	}

	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		if len(e.Values) != Dimension {
			return nil, wragerr.New(wragerr.CodeEmbedDimensionMismatch,
				fmt.Sprintf("gemini: vector %d has dimension %d, want %d", i, len(e.Values), Dimension),
				wragerr.FieldModel(g.model))
		}
		vectors[i] = e.Values
	}

	return vectors, nil
}
