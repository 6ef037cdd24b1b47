package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

const (
	multipartMemoryLimit = 1 << 20
	relaySuccessBody     = `{"status":"success","message":"Thanks"}`
)

type documentFailure int

const (
	documentServed documentFailure = iota
	documentNetworkError
)

// RelaySubmission is a form received by the fake mail relay.
type RelaySubmission struct {
	Fields url.Values
	Cookie string
}

// Upstream fakes the static content host, the token endpoint and the mail relay.
type Upstream struct {
	server *httptest.Server

	mutex            sync.Mutex
	documents        map[string]string
	statuses         map[string]int
	failures         map[string]documentFailure
	tokenFailure     bool
	tokensIssued     int
	relayStatus      int
	relayBody        string
	relaySubmissions []RelaySubmission
}

// NewUpstream starts a fake upstream serving the fixture documents.
func NewUpstream(testingT testing.TB) *Upstream {
	testingT.Helper()
	upstream := &Upstream{
		documents:   FixtureDocuments(),
		statuses:    make(map[string]int),
		failures:    make(map[string]documentFailure),
		relayStatus: http.StatusOK,
		relayBody:   relaySuccessBody,
	}
	upstream.server = httptest.NewServer(http.HandlerFunc(upstream.serve))
	testingT.Cleanup(upstream.server.Close)
	return upstream
}

// URL returns the base URL of the upstream.
func (upstream *Upstream) URL() string {
	return upstream.server.URL
}

// TokenURL returns the token endpoint URL.
func (upstream *Upstream) TokenURL() string {
	return upstream.server.URL + TokenPath
}

// RelayURL returns the mail relay URL.
func (upstream *Upstream) RelayURL() string {
	return upstream.server.URL + RelayPath
}

// SetDocument replaces the body served at the path.
func (upstream *Upstream) SetDocument(path string, body string) {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	upstream.documents[path] = body
	delete(upstream.failures, path)
	delete(upstream.statuses, path)
}

// FailDocumentStatus makes the path answer with the status.
func (upstream *Upstream) FailDocumentStatus(path string, status int) {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	upstream.statuses[path] = status
}

// FailDocumentNetwork makes the path drop the connection without a response.
func (upstream *Upstream) FailDocumentNetwork(path string) {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	upstream.failures[path] = documentNetworkError
}

// FailTokens makes the token endpoint drop connections.
func (upstream *Upstream) FailTokens(failing bool) {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	upstream.tokenFailure = failing
}

// SetRelayResponse configures the relay's status and JSON body.
func (upstream *Upstream) SetRelayResponse(status int, body string) {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	upstream.relayStatus = status
	upstream.relayBody = body
}

// TokensIssued returns how many tokens the endpoint handed out.
func (upstream *Upstream) TokensIssued() int {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	return upstream.tokensIssued
}

// RelaySubmissions returns the forms the relay received.
func (upstream *Upstream) RelaySubmissions() []RelaySubmission {
	upstream.mutex.Lock()
	defer upstream.mutex.Unlock()
	return append([]RelaySubmission(nil), upstream.relaySubmissions...)
}

func (upstream *Upstream) serve(writer http.ResponseWriter, request *http.Request) {
	switch request.URL.Path {
	case TokenPath:
		upstream.serveToken(writer)
	case RelayPath:
		upstream.serveRelay(writer, request)
	default:
		upstream.serveDocument(writer, request)
	}
}

func (upstream *Upstream) serveToken(writer http.ResponseWriter) {
	upstream.mutex.Lock()
	failing := upstream.tokenFailure
	if !failing {
		upstream.tokensIssued++
	}
	issued := upstream.tokensIssued
	upstream.mutex.Unlock()

	if failing {
		dropConnection(writer)
		return
	}
	http.SetCookie(writer, &http.Cookie{Name: "PHPSESSID", Value: "relay-session", Path: "/"})
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(map[string]string{"csrf_token": fmt.Sprintf("token-%d", issued)})
}

func (upstream *Upstream) serveRelay(writer http.ResponseWriter, request *http.Request) {
	_ = request.ParseMultipartForm(multipartMemoryLimit)
	submission := RelaySubmission{}
	if request.MultipartForm != nil {
		submission.Fields = url.Values(request.MultipartForm.Value)
	}
	if cookie, cookieErr := request.Cookie("PHPSESSID"); cookieErr == nil {
		submission.Cookie = cookie.Value
	}

	upstream.mutex.Lock()
	upstream.relaySubmissions = append(upstream.relaySubmissions, submission)
	status := upstream.relayStatus
	body := upstream.relayBody
	upstream.mutex.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, _ = writer.Write([]byte(body))
}

func (upstream *Upstream) serveDocument(writer http.ResponseWriter, request *http.Request) {
	upstream.mutex.Lock()
	body, found := upstream.documents[request.URL.Path]
	status, failingStatus := upstream.statuses[request.URL.Path]
	failure := upstream.failures[request.URL.Path]
	upstream.mutex.Unlock()

	if failure == documentNetworkError {
		dropConnection(writer)
		return
	}
	if failingStatus {
		writer.WriteHeader(status)
		return
	}
	if !found {
		http.NotFound(writer, request)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write([]byte(body))
}

func dropConnection(writer http.ResponseWriter) {
	hijacker, hijackable := writer.(http.Hijacker)
	if !hijackable {
		writer.WriteHeader(http.StatusBadGateway)
		return
	}
	connection, _, hijackErr := hijacker.Hijack()
	if hijackErr != nil {
		return
	}
	_ = connection.Close()
}
