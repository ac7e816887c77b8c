// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package rag orchestrates the ingest, query, and delete flows over the
// extractor, chunker, embedder, vector store, and generator. The service
// is stateless; every dependency is injected at construction and reused
// across requests.
package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/webrag-dev/webrag/internal/chunk"
	"github.com/webrag-dev/webrag/internal/embed"
	"github.com/webrag-dev/webrag/internal/generate"
	"github.com/webrag-dev/webrag/internal/store/qdrant"
	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// DefaultSearchLimit is the number of chunks retrieved per query.
const DefaultSearchLimit = 3

// TextExtractor turns a URL into a normalized text string.
type TextExtractor interface {
	Text(ctx context.Context, url string) (string, error)
}

// VectorStore persists embedded chunks and answers similarity queries.
type VectorStore interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, points []qdrant.Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]qdrant.ScoredPoint, error)
	DeleteByURL(ctx context.Context, url string) (int, error)
}

// Deps holds the injected dependencies for a Service.
type Deps struct {
	Extractor TextExtractor
	Embedder  embed.Embedder
	Store     VectorStore
	Generator generate.Generator

	// ChunkSize caps chunk length in runes; zero means chunk.DefaultSize.
	ChunkSize int
	// SearchLimit is the retrieval top-k; zero means DefaultSearchLimit.
	SearchLimit int
}

// Service implements the three operations of the RAG pipeline.
type Service struct {
	extractor   TextExtractor
	embedder    embed.Embedder
	store       VectorStore
	generator   generate.Generator
	chunkSize   int
	searchLimit int
}

// NewService validates deps and creates a Service.
func NewService(deps Deps) (*Service, error) {
	if deps.Extractor == nil {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "extractor is required")
	}
	if deps.Embedder == nil {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "embedder is required")
	}
	if deps.Store == nil {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "vector store is required")
	}
	if deps.Generator == nil {
		return nil, wragerr.New(wragerr.CodeConfigInvalidValue, "generator is required")
	}

	chunkSize := deps.ChunkSize
	if chunkSize <= 0 {
		chunkSize = chunk.DefaultSize
	}
	searchLimit := deps.SearchLimit
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}

	return &Service{
		extractor:   deps.Extractor,
		embedder:    deps.Embedder,
		store:       deps.Store,
		generator:   deps.Generator,
		chunkSize:   chunkSize,
		searchLimit: searchLimit,
	}, nil
}

// PointID derives the store id for chunk index of url. Ids are
// deterministic, so re-ingesting a page overwrites its own chunks, and
// namespaced by URL, so distinct pages never collide.
func PointID(url string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", url, index))).String()
}

// Ingest fetches url, chunks its text, embeds the chunks, and upserts
// them into the vector store. Returns the number of chunks stored.
func (s *Service) Ingest(ctx context.Context, url string) (int, error) {
	text, err := s.extractor.Text(ctx, url)
	if err != nil {
		return 0, err
	}

	chunks := chunk.Wrap(text, s.chunkSize)
	if len(chunks) == 0 {
		slog.Warn("page produced no text", "url", url)
		return 0, nil
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, wragerr.New(wragerr.CodeEmbedUpstreamFailure,
			fmt.Sprintf("got %d vectors for %d chunks", len(vectors), len(chunks)))
	}

	if err := s.store.EnsureCollection(ctx); err != nil {
		return 0, err
	}

	points := make([]qdrant.Point, len(chunks))
	for i, c := range chunks {
		points[i] = qdrant.Point{
			ID:     PointID(url, i),
			Vector: vectors[i],
			Payload: qdrant.Payload{
				Text:  c,
				URL:   url,
				Index: i,
			},
		}
	}

	if err := s.store.Upsert(ctx, points); err != nil {
		return 0, err
	}

	slog.Info("ingested page", "url", url, "chunks", len(chunks))
	return len(chunks), nil
}

// Query embeds the question, retrieves the top matching chunks, and asks
// the generator for an answer grounded in them. Returns the answer and
// the retrieved chunk texts in retrieval order.
func (s *Service) Query(ctx context.Context, question string) (string, []string, error) {
	vectors, err := s.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", nil, err
	}
	if len(vectors) != 1 {
		return "", nil, wragerr.New(wragerr.CodeEmbedUpstreamFailure,
			fmt.Sprintf("got %d vectors for one question", len(vectors)))
	}

	hits, err := s.store.Search(ctx, vectors[0], s.searchLimit)
	if err != nil {
		return "", nil, err
	}

	chunks := make([]string, 0, len(hits))
	for _, h := range hits {
		chunks = append(chunks, h.Payload.Text)
	}

	answer, err := s.generator.Generate(ctx, BuildPrompt(chunks, question))
	if err != nil {
		return "", nil, err
	}

	return answer, chunks, nil
}

// DeleteByURL removes every stored chunk of url and returns the count.
// Deleting a URL with no stored chunks is a not-found error.
func (s *Service) DeleteByURL(ctx context.Context, url string) (int, error) {
	n, err := s.store.DeleteByURL(ctx, url)
	if err != nil {
		return 0, err
	}
	slog.Info("deleted page", "url", url, "chunks", n)
	return n, nil
}
