package testutil_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/testutil"
)

func TestUpstreamServesFixtureDocuments(t *testing.T) {
	upstream := testutil.NewUpstream(t)

	response, getErr := http.Get(upstream.URL() + testutil.ServicesPath)
	require.NoError(t, getErr)
	defer response.Body.Close()
	body, readErr := io.ReadAll(response.Body)
	require.NoError(t, readErr)

	require.Equal(t, http.StatusOK, response.StatusCode)
	require.JSONEq(t, testutil.FixtureServices, string(body))
}

func TestUpstreamFailsDocumentWithStatus(t *testing.T) {
	upstream := testutil.NewUpstream(t)
	upstream.FailDocumentStatus(testutil.CoveragePath, http.StatusServiceUnavailable)

	response, getErr := http.Get(upstream.URL() + testutil.CoveragePath)
	require.NoError(t, getErr)
	response.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, response.StatusCode)
}

func TestUpstreamRecordsRelaySubmissions(t *testing.T) {
	upstream := testutil.NewUpstream(t)

	tokenResponse, tokenErr := http.Get(upstream.TokenURL())
	require.NoError(t, tokenErr)
	tokenResponse.Body.Close()
	require.Equal(t, 1, upstream.TokensIssued())

	var payload bytes.Buffer
	writer := multipart.NewWriter(&payload)
	require.NoError(t, writer.WriteField("name", "Nusrat"))
	require.NoError(t, writer.Close())
	request, requestErr := http.NewRequest(http.MethodPost, upstream.RelayURL(), &payload)
	require.NoError(t, requestErr)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	request.AddCookie(tokenResponse.Cookies()[0])

	relayResponse, relayErr := http.DefaultClient.Do(request)
	require.NoError(t, relayErr)
	relayResponse.Body.Close()

	submissions := upstream.RelaySubmissions()
	require.Len(t, submissions, 1)
	require.Equal(t, "Nusrat", submissions[0].Fields.Get("name"))
	require.Equal(t, "relay-session", submissions[0].Cookie)
}
