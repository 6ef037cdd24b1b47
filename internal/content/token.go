package content

import (
	"context"
	"errors"
	"strings"
)

// ErrSecurityTokenUnavailable indicates the token endpoint did not yield a token.
var ErrSecurityTokenUnavailable = errors.New("content: security token unavailable")

type tokenEnvelope struct {
	CSRFToken string `json:"csrf_token"`
}

// TokenSource obtains anti-forgery tokens from the token endpoint.
type TokenSource struct {
	fetcher *Fetcher
	url     string
}

// NewTokenSource constructs a TokenSource. The fetcher's client should be the one used to post forms,
// so the relay sees the cookie issued alongside the token.
func NewTokenSource(fetcher *Fetcher, url string) *TokenSource {
	return &TokenSource{fetcher: fetcher, url: strings.TrimSpace(url)}
}

// FetchToken returns a fresh token.
func (source *TokenSource) FetchToken(ctx context.Context) (string, error) {
	var envelope tokenEnvelope
	if !source.fetcher.FetchJSON(ctx, source.url, &envelope) {
		return "", ErrSecurityTokenUnavailable
	}
	token := strings.TrimSpace(envelope.CSRFToken)
	if token == "" {
		return "", ErrSecurityTokenUnavailable
	}
	return token, nil
}
