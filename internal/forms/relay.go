// Package forms submits visitor forms to the mail relay and tracks their status.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
)

const relayStatusSuccess = "success"

var (
	ErrRelayTransport = errors.New("forms: relay transport failure")
	ErrRelayMalformed = errors.New("forms: malformed relay response")
)

// Envelope is the mail relay's JSON reply.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Succeeded reports whether the relay accepted the submission.
func (envelope Envelope) Succeeded() bool {
	return envelope.Status == relayStatusSuccess
}

// RelayResponse is the decoded reply and its HTTP status.
type RelayResponse struct {
	StatusCode int
	Success    bool
	Envelope   Envelope
}

// Relay posts form fields to the mail relay endpoint.
type Relay struct {
	url string
}

// NewRelay constructs a Relay for the endpoint.
func NewRelay(endpoint string) *Relay {
	return &Relay{url: strings.TrimSpace(endpoint)}
}

// multipartFields turns every value of every field into its own part, in field-name order.
func multipartFields(fields url.Values) []*resty.MultipartField {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]*resty.MultipartField, 0, len(fields))
	for _, name := range names {
		for _, value := range fields[name] {
			parts = append(parts, &resty.MultipartField{Param: name, Reader: strings.NewReader(value)})
		}
	}
	return parts
}

// Post sends the fields as multipart form data through the visitor's client, so the relay sees the
// session cookie issued with the token.
func (relay *Relay) Post(ctx context.Context, client *resty.Client, fields url.Values) (RelayResponse, error) {
	response, requestErr := client.R().
		SetContext(ctx).
		SetMultipartFields(multipartFields(fields)...).
		Post(relay.url)
	if requestErr != nil {
		return RelayResponse{}, fmt.Errorf("%w: %v", ErrRelayTransport, requestErr)
	}
	result := RelayResponse{StatusCode: response.StatusCode(), Success: response.IsSuccess()}
	if decodeErr := json.Unmarshal(response.Body(), &result.Envelope); decodeErr != nil {
		return result, fmt.Errorf("%w: %v", ErrRelayMalformed, decodeErr)
	}
	return result, nil
}
