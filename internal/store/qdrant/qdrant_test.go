// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package qdrant_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webrag-dev/webrag/internal/store/qdrant"
	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

func testVector(fill float32) []float32 {
	v := make([]float32, qdrant.DefaultVectorSize)
	for i := range v {
		v[i] = fill
	}
	return v
}

func newClient(t *testing.T, handler http.Handler) *qdrant.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return qdrant.New(qdrant.Config{
		URL:        srv.URL,
		APIKey:     "test-key",
		Collection: "pages",
	})
}

func TestEnsureCollectionExisting(t *testing.T) {
	var created bool
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/pages":
			assert.Equal(t, "test-key", r.Header.Get("api-key"))
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPut && r.URL.Path == "/collections/pages":
			created = true
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	require.NoError(t, c.EnsureCollection(context.Background()))
	assert.False(t, created, "existing collection must not be recreated")
}

func TestEnsureCollectionCreatesMissing(t *testing.T) {
	var createBody map[string]any
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
			w.WriteHeader(http.StatusOK)
		}
	}))

	require.NoError(t, c.EnsureCollection(context.Background()))

	require.NotNil(t, createBody)
	vectors := createBody["vectors"].(map[string]any)
	assert.Equal(t, float64(384), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])
}

func TestUpsertSendsPoints(t *testing.T) {
	var got struct {
		Points []struct {
			ID      string    `json:"id"`
			Vector  []float32 `json:"vector"`
			Payload struct {
				Text  string `json:"text"`
				URL   string `json:"url"`
				Index int    `json:"index"`
			} `json:"payload"`
		} `json:"points"`
	}
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/collections/pages/points", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("wait"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))

	points := []qdrant.Point{
		{ID: "id-0", Vector: testVector(0.1), Payload: qdrant.Payload{Text: "alpha", URL: "https://example.com", Index: 0}},
		{ID: "id-1", Vector: testVector(0.2), Payload: qdrant.Payload{Text: "beta", URL: "https://example.com", Index: 1}},
	}
	require.NoError(t, c.Upsert(context.Background(), points))

	require.Len(t, got.Points, 2)
	assert.Equal(t, "id-0", got.Points[0].ID)
	assert.Equal(t, "alpha", got.Points[0].Payload.Text)
	assert.Equal(t, "https://example.com", got.Points[1].Payload.URL)
	assert.Equal(t, 1, got.Points[1].Payload.Index)
	assert.Len(t, got.Points[0].Vector, qdrant.DefaultVectorSize)
}

func TestUpsertRejectsWrongVectorSize(t *testing.T) {
	c := qdrant.New(qdrant.Config{URL: "http://127.0.0.1:1", Collection: "pages"})

	err := c.Upsert(context.Background(), []qdrant.Point{
		{ID: "id-0", Vector: make([]float32, 768)},
	})

	require.Error(t, err)
	assert.Equal(t, wragerr.CodeStoreUpstreamFailure, wragerr.CodeOf(err))
}

func TestUpsertEmptyIsNoop(t *testing.T) {
	c := qdrant.New(qdrant.Config{URL: "http://127.0.0.1:1", Collection: "pages"})
	require.NoError(t, c.Upsert(context.Background(), nil))
}

func TestSearchDecodesResults(t *testing.T) {
	var gotLimit float64
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/pages/points/search", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotLimit = body["limit"].(float64)
		assert.Equal(t, true, body["with_payload"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{"id": "id-0", "score": 0.92, "payload": map[string]any{"text": "alpha", "url": "https://example.com", "index": 0}},
				{"id": "id-1", "score": 0.81, "payload": map[string]any{"text": "beta", "url": "https://example.com", "index": 1}},
			},
		})
	}))

	hits, err := c.Search(context.Background(), testVector(0.5), 3)

	require.NoError(t, err)
	assert.Equal(t, float64(3), gotLimit)
	require.Len(t, hits, 2)
	assert.Equal(t, "alpha", hits[0].Payload.Text)
	assert.InDelta(t, 0.92, hits[0].Score, 1e-6)
}

func TestSearchUpstreamError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"status":{"error":"boom"}}`, http.StatusInternalServerError)
	}))

	_, err := c.Search(context.Background(), testVector(0.5), 3)

	require.Error(t, err)
	assert.Equal(t, wragerr.CodeStoreUpstreamFailure, wragerr.CodeOf(err))
}

func TestDeleteByURLPaginatesScroll(t *testing.T) {
	const total = 250
	var deleted []string
	scrollCalls := 0

	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections/pages/points/scroll":
			var body struct {
				Filter map[string]any `json:"filter"`
				Limit  int            `json:"limit"`
				Offset *int           `json:"offset"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, 100, body.Limit)
			require.NotNil(t, body.Filter)

			start := 0
			if body.Offset != nil {
				start = *body.Offset
			}
			scrollCalls++

			end := start + body.Limit
			if end > total {
				end = total
			}
			points := make([]map[string]any, 0, end-start)
			for i := start; i < end; i++ {
				points = append(points, map[string]any{"id": fmt.Sprintf("id-%d", i)})
			}
			result := map[string]any{"points": points}
			if end < total {
				result["next_page_offset"] = end
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": result})

		case "/collections/pages/points/delete":
			var body struct {
				Points []string `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			deleted = body.Points
			w.WriteHeader(http.StatusOK)

		default:
			t.Errorf("unexpected request %s", r.URL.Path)
		}
	}))

	n, err := c.DeleteByURL(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, total, n)
	assert.Equal(t, 3, scrollCalls)
	assert.Len(t, deleted, total)
	assert.Equal(t, "id-0", deleted[0])
	assert.Equal(t, "id-249", deleted[total-1])
}

func TestDeleteByURLNotFound(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collections/pages/points/scroll", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"points": []any{}},
		})
	}))

	_, err := c.DeleteByURL(context.Background(), "https://nowhere.example")

	require.Error(t, err)
	assert.Equal(t, wragerr.CodeStoreURLNotFound, wragerr.CodeOf(err))
	assert.True(t, wragerr.IsNotFound(err))
}

func TestDeleteByURLIntegerIDs(t *testing.T) {
	var deleted []any
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/collections/pages/points/scroll":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"result": map[string]any{"points": []map[string]any{{"id": 0}, {"id": 1}, {"id": 2}}},
			})
		case "/collections/pages/points/delete":
			var body struct {
				Points []any `json:"points"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			deleted = body.Points
			w.WriteHeader(http.StatusOK)
		}
	}))

	n, err := c.DeleteByURL(context.Background(), "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []any{float64(0), float64(1), float64(2)}, deleted)
}
