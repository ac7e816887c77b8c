// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// RAGService provides the pipeline operations for REST handlers. It is an
// interface so the service can be mocked in tests; *rag.Service satisfies
// it directly.
type RAGService interface {
	Ingest(ctx context.Context, url string) (int, error)
	Query(ctx context.Context, question string) (answer string, sourceChunks []string, err error)
	DeleteByURL(ctx context.Context, url string) (int, error)
}

// RegisterService sets the service dependency and registers REST routes.
func (s *Server) RegisterService(svc RAGService) {
	s.svc = svc
	s.registerRoutes()
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "process-url",
		Method:      http.MethodPost,
		Path:        "/process-url",
		Summary:     "Ingest a web page into the vector index",
		Tags:        []string{"ingest"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, s.handleProcessURL)

	huma.Register(s.api, huma.Operation{
		OperationID: "query",
		Method:      http.MethodPost,
		Path:        "/query",
		Summary:     "Answer a question over ingested pages",
		Tags:        []string{"query"},
		Errors:      []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, s.handleQuery)

	huma.Register(s.api, huma.Operation{
		OperationID: "delete-url",
		Method:      http.MethodDelete,
		Path:        "/delete-url",
		Summary:     "Delete every stored chunk of a web page",
		Tags:        []string{"ingest"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError},
	}, s.handleDeleteURL)
}

// --- Request/Response types for huma ---

type urlInput struct {
	Body struct {
		URL string `json:"url" format:"uri" minLength:"1" doc:"Web page URL"`
	}
}

type queryInput struct {
	Body struct {
		Question string `json:"question" minLength:"1" doc:"Natural-language question"`
	}
}

type queryOutput struct {
	Body struct {
		Answer       string   `json:"answer" doc:"Generated answer"`
		SourceChunks []string `json:"source_chunks" doc:"Retrieved context chunks, in retrieval order"`
	}
}

type deleteOutput struct {
	Body struct {
		Message      string `json:"message" doc:"Human-readable result"`
		DeletedCount int    `json:"deleted_count" doc:"Number of chunks removed"`
	}
}

// --- Handlers ---

func (s *Server) handleProcessURL(ctx context.Context, input *urlInput) (*MessageResponse, error) {
	n, err := s.svc.Ingest(ctx, input.Body.URL)
	if err != nil {
		return nil, s.httpError(err, "processing url")
	}

	resp := &MessageResponse{}
	resp.Body.Message = fmt.Sprintf("Stored %d chunks from %s", n, input.Body.URL)
	return resp, nil
}

func (s *Server) handleQuery(ctx context.Context, input *queryInput) (*queryOutput, error) {
	answer, chunks, err := s.svc.Query(ctx, input.Body.Question)
	if err != nil {
		return nil, s.httpError(err, "answering query")
	}

	out := &queryOutput{}
	out.Body.Answer = answer
	out.Body.SourceChunks = chunks
	if out.Body.SourceChunks == nil {
		out.Body.SourceChunks = []string{}
	}
	return out, nil
}

func (s *Server) handleDeleteURL(ctx context.Context, input *urlInput) (*deleteOutput, error) {
	n, err := s.svc.DeleteByURL(ctx, input.Body.URL)
	if err != nil {
		return nil, s.httpError(err, "deleting url")
	}

	out := &deleteOutput{}
	out.Body.Message = fmt.Sprintf("Deleted %d chunks for %s", n, input.Body.URL)
	out.Body.DeletedCount = n
	return out, nil
}

// httpError converts a pipeline error into the huma error for the status
// the contract assigns it. The underlying error rides along as a detail
// entry; whether to suppress that is a product decision, and the codes in
// pkg/errors keep it a one-line change.
func (s *Server) httpError(err error, msg string) error {
	switch wragerr.HTTPStatus(err) {
	case http.StatusBadRequest:
		return huma.Error400BadRequest(msg, err)
	case http.StatusNotFound:
		return huma.Error404NotFound(msg, err)
	default:
		slog.Error(msg, "error", err, "code", wragerr.CodeOf(err))
		return huma.Error500InternalServerError(msg, err)
	}
}
