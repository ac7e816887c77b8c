// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeExtractURLInvalid     Code = "extract.url.invalid_input"
	CodeExtractFetchFailure   Code = "extract.fetch.failure"
	CodeExtractStatusRejected Code = "extract.status.rejected"
	CodeExtractParseFailure   Code = "extract.parse.failure"

	CodeEmbedUpstreamFailure     Code = "embed.upstream.failure"
	CodeEmbedDimensionMismatch   Code = "embed.dimension.mismatch"
	CodeEmbedProviderUnsupported Code = "embed.provider.unsupported"

	CodeStoreUpstreamFailure   Code = "store.upstream.failure"
	CodeStoreResponseMalformed Code = "store.response.malformed"
	CodeStoreURLNotFound       Code = "store.url.not_found"

	CodeGenerateUpstreamFailure Code = "generate.upstream.failure"
	CodeGenerateResponseEmpty   Code = "generate.response.empty"

	CodeConfigInvalidValue Code = "config.validate.invalid_value"

	CodeServerRequestInvalid Code = "server.request.invalid_input"
	CodeServerStartFailure   Code = "server.start.failure"

	CodeCLISetupFailure Code = "cli.setup.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldURL(value string) Attr {
	return Field("url", value)
}

func FieldCollection(value string) Attr {
	return Field("collection", value)
}

func FieldProvider(value string) Attr {
	return Field("provider", value)
}

func FieldModel(value string) Attr {
	return Field("model", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format"
}

// IsExtraction reports whether err originated in the text-extraction stage.
// Extraction failures, including upstream fetch errors, are client errors:
// the URL the caller supplied could not be turned into text.
func IsExtraction(err error) bool {
	return strings.HasPrefix(string(CodeOf(err)), "extract.")
}

// HTTPStatus maps an error to the response status the service contract
// defines: extraction problems are 400, a delete that matched nothing is
// 404, and any failure in the embedding, store, or generation capabilities
// is 500.
func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsExtraction(err), IsInvalidInput(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
