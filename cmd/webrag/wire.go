// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package main

import (
	"context"

	"github.com/webrag-dev/webrag/internal/config"
	"github.com/webrag-dev/webrag/internal/embed"
	"github.com/webrag-dev/webrag/internal/extract"
	"github.com/webrag-dev/webrag/internal/generate"
	"github.com/webrag-dev/webrag/internal/rag"
	"github.com/webrag-dev/webrag/internal/server"
	"github.com/webrag-dev/webrag/internal/store/qdrant"
	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// App holds all wired subsystems.
type App struct {
	Server   *server.Server
	Service  *rag.Service
	Embedder embed.Embedder
}

// Wire creates the pipeline components once and connects them. Clients
// are long-lived and shared across requests; nothing here is global.
func Wire(ctx context.Context, cfg *config.Config) (*App, error) {
	embedder, err := newEmbedder(ctx, cfg)
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeCLISetupFailure, "creating embedder")
	}

	generator, err := generate.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeCLISetupFailure, "creating generator")
	}

	store := qdrant.New(qdrant.Config{
		URL:        cfg.Qdrant.URL,
		APIKey:     cfg.Qdrant.APIKey,
		Collection: cfg.Collection,
		VectorSize: embed.Dimension,
	})

	svc, err := rag.NewService(rag.Deps{
		Extractor:   extract.New(0),
		Embedder:    embedder,
		Store:       store,
		Generator:   generator,
		ChunkSize:   cfg.Chunk.Size,
		SearchLimit: cfg.Search.Limit,
	})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeCLISetupFailure, "creating rag service")
	}

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Server.ListenAddr(),
		CORSOrigins: cfg.Server.Origins(),
	})
	if err != nil {
		return nil, wragerr.Wrap(err, wragerr.CodeCLISetupFailure, "creating http server")
	}
	srv.RegisterService(svc)

	return &App{Server: srv, Service: svc, Embedder: embedder}, nil
}

func newEmbedder(ctx context.Context, cfg *config.Config) (embed.Embedder, error) {
	switch cfg.Embedding.Provider {
	case config.ProviderGemini:
		return embed.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Embedding.Model)
	case config.ProviderOpenAI:
		return embed.NewOpenAI(cfg.OpenAI.APIKey, cfg.Embedding.Model)
	case config.ProviderOllama:
		return embed.NewOllama(cfg.Embedding.OllamaURL, cfg.Embedding.Model), nil
	default:
		return nil, wragerr.Errorf(wragerr.CodeEmbedProviderUnsupported,
			"unknown embedding provider %q", cfg.Embedding.Provider)
	}
}
