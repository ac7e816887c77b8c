// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package embed

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// DefaultOpenAIModel supports requesting a reduced output dimensionality,
// which keeps the stored vectors at Dimension.
const DefaultOpenAIModel = "text-embedding-3-small"

// OpenAI embeds text through the OpenAI embeddings API.
type OpenAI struct {
	client openaisdk.Client
	model  string
}

// NewOpenAI creates an OpenAI embedder. Returns an error if the API key is
// missing.
func NewOpenAI(apiKey, model string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "openai: missing api key", wragerr.FieldProvider("openai"))
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := openaisdk.NewClient(option.WithAPIKey(apiKey))

	return &OpenAI{client: client, model: model}, nil
}

func (o *OpenAI) Model() string { return o.model }

func (o *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	res, err := o.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input:      openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model:      openaisdk.EmbeddingModel(o.model),
		Dimensions: openaisdk.Int(Dimension),
	})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "openai: embedding content",
			wragerr.FieldProvider("openai"), wragerr.FieldModel(o.model))
	}

	if len(res.Data) != len(texts) {
		return nil, wragerr.New(wragerr.CodeEmbedUpstreamFailure,
			fmt.Sprintf("openai: got %d embeddings for %d inputs", len(res.Data), len(texts)),
			wragerr.FieldModel(o.model))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, wragerr.New(wragerr.CodeEmbedUpstreamFailure,
				fmt.Sprintf("openai: embedding index %d out of range", d.Index),
				wragerr.FieldModel(o.model))
		}
		if len(d.Embedding) != Dimension {
			return nil, wragerr.New(wragerr.CodeEmbedDimensionMismatch,
				fmt.Sprintf("openai: vector %d has dimension %d, want %d", d.Index, len(d.Embedding), Dimension),
				wragerr.FieldModel(o.model))
		}
		vec := make([]float32, Dimension)
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		vectors[d.Index] = vec
	}

	return vectors, nil
}
