// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

const (
	// DefaultOllamaURL is the standard local Ollama endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultOllamaModel is all-minilm, whose native output size is
	// already Dimension.
	DefaultOllamaModel = "all-minilm"

	ollamaTimeout = 60 * time.Second
)

// Ollama embeds text through a local Ollama server. It exists so the
// service can run without any hosted API for embeddings; Ollama takes one
// prompt per call, so batches are embedded sequentially.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an Ollama embedder with defaults for any empty field.
func NewOllama(baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: ollamaTimeout},
	}
}

func (o *Ollama) Model() string { return o.model }

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := o.embedOne(ctx, text)
		if err != nil {
			return nil, wragerr.Wrapf(err, wragerr.CodeOf(err), "embedding text %d", i)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (o *Ollama) embedOne(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaEmbedRequest{Model: o.model, Prompt: text})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "ollama: marshaling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "ollama: building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "ollama: calling api",
			wragerr.FieldProvider("ollama"), wragerr.FieldModel(o.model))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, wragerr.New(wragerr.CodeEmbedUpstreamFailure,
			fmt.Sprintf("ollama: api returned %s", resp.Status),
			wragerr.FieldProvider("ollama"), wragerr.FieldModel(o.model))
	}

	var er ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeEmbedUpstreamFailure, "ollama: decoding response")
	}

	if len(er.Embedding) != Dimension {
		return nil, wragerr.New(wragerr.CodeEmbedDimensionMismatch,
			fmt.Sprintf("ollama: got dimension %d, want %d", len(er.Embedding), Dimension),
			wragerr.FieldModel(o.model))
	}

	return er.Embedding, nil
}
