// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package errors_test

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

func TestCodeOf(t *testing.T) {
	err := wragerr.New(wragerr.CodeStoreURLNotFound, "no content for url")
	assert.Equal(t, wragerr.CodeStoreURLNotFound, wragerr.CodeOf(err))
	assert.True(t, wragerr.HasCode(err, wragerr.CodeStoreURLNotFound))
	assert.False(t, wragerr.HasCode(err, wragerr.CodeStoreUpstreamFailure))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, wragerr.Code(""), wragerr.CodeOf(stderrors.New("plain")))
	assert.Equal(t, wragerr.Code(""), wragerr.CodeOf(nil))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, wragerr.Wrap(nil, wragerr.CodeStoreUpstreamFailure, "ignored"))
	assert.NoError(t, wragerr.Wrapf(nil, wragerr.CodeStoreUpstreamFailure, "ignored"))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := wragerr.Wrap(cause, wragerr.CodeEmbedUpstreamFailure, "embedding chunks")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, wragerr.CodeEmbedUpstreamFailure, wragerr.CodeOf(err))
}

func TestFieldsOf(t *testing.T) {
	err := wragerr.New(wragerr.CodeStoreURLNotFound, "no content",
		wragerr.FieldURL("https://example.com"),
		wragerr.FieldCollection("pages"))

	fields := wragerr.FieldsOf(err)
	assert.Equal(t, "https://example.com", fields["url"])
	assert.Equal(t, "pages", fields["collection"])
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"extraction fetch", wragerr.New(wragerr.CodeExtractFetchFailure, "dial timeout"), http.StatusBadRequest},
		{"extraction bad url", wragerr.New(wragerr.CodeExtractURLInvalid, "relative url"), http.StatusBadRequest},
		{"extraction non-2xx", wragerr.New(wragerr.CodeExtractStatusRejected, "503 from origin"), http.StatusBadRequest},
		{"request invalid", wragerr.New(wragerr.CodeServerRequestInvalid, "bad body"), http.StatusBadRequest},
		{"delete not found", wragerr.New(wragerr.CodeStoreURLNotFound, "no content"), http.StatusNotFound},
		{"embed failure", wragerr.New(wragerr.CodeEmbedUpstreamFailure, "model down"), http.StatusInternalServerError},
		{"store failure", wragerr.New(wragerr.CodeStoreUpstreamFailure, "qdrant 500"), http.StatusInternalServerError},
		{"generate failure", wragerr.New(wragerr.CodeGenerateUpstreamFailure, "gemini 500"), http.StatusInternalServerError},
		{"dimension mismatch", wragerr.New(wragerr.CodeEmbedDimensionMismatch, "got 768"), http.StatusInternalServerError},
		{"plain error", stderrors.New("anything"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wragerr.HTTPStatus(tt.err))
		})
	}
}

func TestIsExtraction(t *testing.T) {
	assert.True(t, wragerr.IsExtraction(wragerr.New(wragerr.CodeExtractParseFailure, "bad html")))
	assert.False(t, wragerr.IsExtraction(wragerr.New(wragerr.CodeStoreUpstreamFailure, "down")))
	assert.False(t, wragerr.IsExtraction(nil))
}
