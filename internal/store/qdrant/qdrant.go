// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package qdrant is a minimal REST client for the Qdrant vector database.
// It covers the four operations the service needs: idempotent collection
// creation, point upsert, similarity search, and delete-by-URL via a
// paginated payload-filter scroll.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

const (
	// DefaultVectorSize matches the embedding model's fixed output.
	DefaultVectorSize = 384

	// scrollPageSize bounds one page of the delete scroll. The scroll
	// follows next_page_offset, so the total is not bounded by this.
	scrollPageSize = 100

	defaultTimeout = 15 * time.Second
)

// Config holds connection settings for a Qdrant deployment.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize int
	Timeout    time.Duration
}

// Client talks to one Qdrant collection. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	vectorSize int
	http       *http.Client
}

// Payload is the data stored alongside each vector. URL is the delete
// key; Index is the chunk's position within its source page.
type Payload struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Index int    `json:"index"`
}

// Point is one (id, vector, payload) record.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// ScoredPoint is a search hit with its similarity score.
type ScoredPoint struct {
	ID      string  `json:"id"`
	Score   float32 `json:"score"`
	Payload Payload `json:"payload"`
}

// New creates a Client with defaults for any zero optional field.
func New(cfg Config) *Client {
	if cfg.VectorSize <= 0 {
		cfg.VectorSize = DefaultVectorSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist. It is idempotent and meant to be called before every upsert.
func (c *Client) EnsureCollection(ctx context.Context) error {
	status, _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/collections/%s", c.collection), nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	if status != http.StatusNotFound {
		return wragerr.New(wragerr.CodeStoreUpstreamFailure,
			fmt.Sprintf("checking collection: qdrant returned %d", status),
			wragerr.FieldCollection(c.collection))
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     c.vectorSize,
			"distance": "Cosine",
		},
	}
	status, respBody, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", c.collection), body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return upstreamErr("creating collection", status, respBody, c.collection)
	}
	return nil
}

// Upsert writes points, overwriting any existing record with the same id.
func (c *Client) Upsert(ctx context.Context, points []Point) error {
	if len(points) == 0 {
		return nil
	}
	for i, p := range points {
		if len(p.Vector) != c.vectorSize {
			return wragerr.New(wragerr.CodeStoreUpstreamFailure,
				fmt.Sprintf("point %d has vector size %d, want %d", i, len(p.Vector), c.vectorSize),
				wragerr.FieldCollection(c.collection))
		}
	}

	body := map[string]any{"points": points}
	status, respBody, err := c.do(ctx, http.MethodPut,
		fmt.Sprintf("/collections/%s/points?wait=true", c.collection), body)
	if err != nil {
		return err
	}
	if status >= 300 {
		return upstreamErr("upserting points", status, respBody, c.collection)
	}
	return nil
}

// Search returns the top limit points by cosine similarity to vector,
// payloads included.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]ScoredPoint, error) {
	if len(vector) != c.vectorSize {
		return nil, wragerr.New(wragerr.CodeStoreUpstreamFailure,
			fmt.Sprintf("query vector has size %d, want %d", len(vector), c.vectorSize),
			wragerr.FieldCollection(c.collection))
	}

	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	status, respBody, err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/search", c.collection), body)
	if err != nil {
		return nil, err
	}
	if status >= 300 {
		return nil, upstreamErr("searching points", status, respBody, c.collection)
	}

	var out struct {
		Result []ScoredPoint `json:"result"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeStoreResponseMalformed, "decoding search response",
			wragerr.FieldCollection(c.collection))
	}
	return out.Result, nil
}

// DeleteByURL removes every point whose payload url matches url and
// returns the number removed. The scroll pages through all matches before
// deleting; zero matches is a not-found error.
func (c *Client) DeleteByURL(ctx context.Context, url string) (int, error) {
	ids, err := c.scrollIDsByURL(ctx, url)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, wragerr.New(wragerr.CodeStoreURLNotFound, "no content found for this url",
			wragerr.FieldURL(url), wragerr.FieldCollection(c.collection))
	}

	body := map[string]any{"points": ids}
	status, respBody, err := c.do(ctx, http.MethodPost,
		fmt.Sprintf("/collections/%s/points/delete?wait=true", c.collection), body)
	if err != nil {
		return 0, err
	}
	if status >= 300 {
		return 0, upstreamErr("deleting points", status, respBody, c.collection)
	}
	return len(ids), nil
}

// scrollIDsByURL collects the ids of every point whose payload url matches
// url, following next_page_offset until Qdrant reports no more pages. Ids
// stay in their original JSON form so integer ids written by other tools
// survive the round trip into the delete request.
func (c *Client) scrollIDsByURL(ctx context.Context, url string) ([]json.RawMessage, error) {
	var ids []json.RawMessage
	var offset json.RawMessage

	for {
		body := map[string]any{
			"filter": map[string]any{
				"must": []map[string]any{
					{"key": "url", "match": map[string]any{"value": url}},
				},
			},
			"limit":        scrollPageSize,
			"with_payload": false,
		}
		if offset != nil {
			body["offset"] = offset
		}

		status, respBody, err := c.do(ctx, http.MethodPost,
			fmt.Sprintf("/collections/%s/points/scroll", c.collection), body)
		if err != nil {
			return nil, err
		}
		if status >= 300 {
			return nil, upstreamErr("scrolling points", status, respBody, c.collection)
		}

		var out struct {
			Result struct {
				Points []struct {
					ID json.RawMessage `json:"id"`
				} `json:"points"`
				NextPageOffset json.RawMessage `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := json.Unmarshal(respBody, &out); err != nil {
			return nil, wragerr.Wrap(err, wragerr.CodeStoreResponseMalformed, "decoding scroll response",
				wragerr.FieldCollection(c.collection))
		}

		for _, p := range out.Result.Points {
			if len(p.ID) == 0 {
				return nil, wragerr.New(wragerr.CodeStoreResponseMalformed, "scroll point missing id",
					wragerr.FieldCollection(c.collection))
			}
			ids = append(ids, p.ID)
		}

		if len(out.Result.NextPageOffset) == 0 || string(out.Result.NextPageOffset) == "null" {
			return ids, nil
		}
		offset = out.Result.NextPageOffset
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, wragerr.Wrap(err, wragerr.CodeStoreUpstreamFailure, "marshaling request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, wragerr.Wrap(err, wragerr.CodeStoreUpstreamFailure, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, wragerr.Wrap(err, wragerr.CodeStoreUpstreamFailure, "calling qdrant",
			wragerr.FieldCollection(c.collection))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, wragerr.Wrap(err, wragerr.CodeStoreUpstreamFailure, "reading qdrant response")
	}
	return resp.StatusCode, respBody, nil
}

func upstreamErr(op string, status int, body []byte, collection string) error {
	detail := string(body)
	if len(detail) > 200 {
		detail = detail[:200]
	}
	return wragerr.New(wragerr.CodeStoreUpstreamFailure,
		fmt.Sprintf("%s: qdrant returned %d: %s", op, status, detail),
		wragerr.FieldCollection(collection))
}
