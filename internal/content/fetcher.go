// Package content fetches the site's JSON documents and holds them in a Store.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	headerCacheControl = "Cache-Control"
	headerPragma       = "Pragma"
	headerAccept       = "Accept"
	cacheDirectiveNone = "no-cache"
	acceptJSON         = "application/json"
)

var (
	// ErrDocumentStatus indicates a non-success HTTP status.
	ErrDocumentStatus = errors.New("content: unexpected status")
	// ErrDocumentEmpty indicates an empty response body.
	ErrDocumentEmpty = errors.New("content: empty document")
	// ErrDocumentMalformed indicates a body that is not valid JSON.
	ErrDocumentMalformed = errors.New("content: malformed document")
)

// Fetcher retrieves JSON documents with caching disabled.
type Fetcher struct {
	client *resty.Client
	logger *zap.Logger
}

// NewFetcher constructs a Fetcher. A nil client gets a fresh resty client.
func NewFetcher(client *resty.Client, logger *zap.Logger) *Fetcher {
	if client == nil {
		client = resty.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{client: client, logger: logger}
}

// Retrieve performs the request and classifies failures.
func (fetcher *Fetcher) Retrieve(ctx context.Context, url string) (json.RawMessage, error) {
	response, requestErr := fetcher.client.R().
		SetContext(ctx).
		SetHeader(headerCacheControl, cacheDirectiveNone).
		SetHeader(headerPragma, cacheDirectiveNone).
		SetHeader(headerAccept, acceptJSON).
		Get(url)
	if requestErr != nil {
		return nil, requestErr
	}
	if !response.IsSuccess() {
		return nil, fmt.Errorf("%w: %d %s", ErrDocumentStatus, response.StatusCode(), http.StatusText(response.StatusCode()))
	}
	body := bytes.TrimSpace(response.Body())
	if len(body) == 0 {
		return nil, ErrDocumentEmpty
	}
	if !json.Valid(body) {
		return nil, ErrDocumentMalformed
	}
	return json.RawMessage(body), nil
}

// FetchDocument returns the document or reports it absent. Failures are logged, never returned.
func (fetcher *Fetcher) FetchDocument(ctx context.Context, url string) (json.RawMessage, bool) {
	document, retrieveErr := fetcher.Retrieve(ctx, url)
	switch {
	case retrieveErr == nil:
		return document, true
	case errors.Is(retrieveErr, ErrDocumentEmpty):
		fetcher.logger.Warn("fetch_document_empty", zap.String("url", url))
	case errors.Is(retrieveErr, ErrDocumentMalformed):
		fetcher.logger.Error("fetch_document_malformed", zap.String("url", url))
	default:
		fetcher.logger.Error("fetch_document_failed", zap.String("url", url), zap.Error(retrieveErr))
	}
	return nil, false
}

// FetchJSON decodes the document into target. A document that does not fit target counts as malformed.
func (fetcher *Fetcher) FetchJSON(ctx context.Context, url string, target any) bool {
	document, present := fetcher.FetchDocument(ctx, url)
	if !present {
		return false
	}
	if decodeErr := json.Unmarshal(document, target); decodeErr != nil {
		fetcher.logger.Error("fetch_document_malformed", zap.String("url", url), zap.Error(decodeErr))
		return false
	}
	return true
}
