// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Webrag Contributors

// Package extract turns a web page into a single normalized string of
// visible text. Markup is parsed with x/net/html; script and style
// subtrees are dropped before text collection.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	wragerr "github.com/webrag-dev/webrag/pkg/errors"
)

// DefaultTimeout bounds a single page fetch. There are no retries; a slow
// or failing origin surfaces as an extraction error.
const DefaultTimeout = 30 * time.Second

// Extractor fetches URLs and strips them down to visible text.
type Extractor struct {
	client *http.Client
}

// New creates an Extractor with the given fetch timeout. A zero timeout
// falls back to DefaultTimeout.
func New(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{
		client: &http.Client{Timeout: timeout},
	}
}

// Text fetches rawURL and returns the page's visible text with whitespace
// collapsed. Any failure — malformed URL, network error, non-2xx status,
// unparseable body — is an extraction error the caller maps to a client
// failure.
func (e *Extractor) Text(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", wragerr.Wrap(err, wragerr.CodeExtractURLInvalid, "parsing url", wragerr.FieldURL(rawURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", wragerr.New(wragerr.CodeExtractURLInvalid,
			fmt.Sprintf("unsupported scheme %q", u.Scheme), wragerr.FieldURL(rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", wragerr.Wrap(err, wragerr.CodeExtractURLInvalid, "building request", wragerr.FieldURL(rawURL))
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", wragerr.Wrap(err, wragerr.CodeExtractFetchFailure, "fetching url", wragerr.FieldURL(rawURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", wragerr.New(wragerr.CodeExtractStatusRejected,
			fmt.Sprintf("origin returned %s", resp.Status), wragerr.FieldURL(rawURL))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", wragerr.Wrap(err, wragerr.CodeExtractParseFailure, "parsing html", wragerr.FieldURL(rawURL))
	}

	var b strings.Builder
	collectText(doc, &b)

	return normalize(b.String()), nil
}

// collectText appends the text content of the subtree rooted at n,
// skipping script and style elements entirely.
func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

// normalize collapses raw page text: each line is trimmed, split on
// double-space runs, trimmed again, empty fragments dropped, and the rest
// rejoined with single spaces.
func normalize(s string) string {
	var frags []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		for _, phrase := range strings.Split(line, "  ") {
			phrase = strings.TrimSpace(phrase)
			if phrase != "" {
				frags = append(frags, phrase)
			}
		}
	}
	return strings.Join(frags, " ")
}
