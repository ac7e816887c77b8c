// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package generate

import (
	"context"

	"google.golang.org/genai"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Gemini generates completions through the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator. Returns an error if the API key is
// missing.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "gemini: missing api key", wragerr.FieldProvider("gemini"))
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeGenerateUpstreamFailure, "gemini: creating client", wragerr.FieldProvider("gemini"))
	}

	return &Gemini{client: client, model: model}, nil
}

// ModelName returns the generation model in use, for logging.
func (g *Gemini) ModelName() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", wragerr.Wrap(err, wragerr.CodeGenerateUpstreamFailure, "gemini: generating content",
			wragerr.FieldModel(g.model))
	}

	text := resp.Text()
	if text == "" {
		return "", wragerr.New(wragerr.CodeGenerateResponseEmpty, "gemini: empty completion",
			wragerr.FieldModel(g.model))
	}
	return text, nil
}
