package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/questx-lab/nftmint/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, privateKey string) *httptest.Server {
	cfg := testutil.MockConfigs()
	cfg.Signer.PrivateKey = privateKey

	s := &srv{ctx: testutil.MockContextWithConfigs(cfg)}
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	server := httptest.NewServer(s.router.Handler())
	t.Cleanup(server.Close)
	return server
}

func postGenerate(t *testing.T, url, body string) (int, map[string]any) {
	resp, err := http.Post(url+"/api/generate", "text/plain;charset=UTF-8", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	result := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

func Test_api_Generate(t *testing.T) {
	server := newTestServer(t, testutil.SignerPrivateKey)

	status, body := postGenerate(t, server.URL, `{
		"authorAddress": "`+testutil.AuthorAddress+`",
		"nftName": "Test",
		"nftImage": "https://host/img.png",
		"nftDescription": "Desc"
	}`)
	require.Equal(t, http.StatusOK, status)

	signed, ok := body["signedPayload"].(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, signed["signature"])

	payload := signed["payload"].(map[string]any)
	require.Equal(t, float64(1000), payload["royaltyBps"])
	require.Equal(t, payload["to"], payload["royaltyRecipient"])
}

func Test_api_Generate_InvalidInput(t *testing.T) {
	server := newTestServer(t, testutil.SignerPrivateKey)

	for _, body := range []string{`{"authorAddress":"bob"}`, `not json`} {
		status, resp := postGenerate(t, server.URL, body)
		require.Equal(t, http.StatusInternalServerError, status)
		require.NotEmpty(t, resp["error"])
		require.NotContains(t, resp, "signedPayload")
	}
}

func Test_api_Generate_MissingCredential(t *testing.T) {
	server := newTestServer(t, "")

	for _, body := range []string{
		`{"authorAddress":"` + testutil.AuthorAddress + `","nftName":"a","nftImage":"b","nftDescription":"c"}`,
		`{"authorAddress":"bob"}`,
		`{}`,
		``,
		`not json`,
	} {
		status, resp := postGenerate(t, server.URL, body)
		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, "Signing credential is not configured", resp["error"])
	}
}

func Test_api_Generate_MethodNotAllowed(t *testing.T) {
	server := newTestServer(t, testutil.SignerPrivateKey)

	resp, err := http.Get(server.URL + "/api/generate")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func Test_api_GetIssuances(t *testing.T) {
	server := newTestServer(t, testutil.SignerPrivateKey)

	status, _ := postGenerate(t, server.URL, `{
		"authorAddress": "`+testutil.AuthorAddress+`",
		"nftName": "Test",
		"nftImage": "https://host/img.png",
		"nftDescription": "Desc"
	}`)
	require.Equal(t, http.StatusOK, status)

	resp, err := http.Get(server.URL + "/api/vouchers?address=" + testutil.AuthorAddress)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, float64(1), body["total"])

	issuances := body["issuances"].([]any)
	require.Len(t, issuances, 1)
	require.Equal(t, "Test", issuances[0].(map[string]any)["name"])
}

func Test_api_GetIssuances_InvalidAddress(t *testing.T) {
	server := newTestServer(t, testutil.SignerPrivateKey)

	resp, err := http.Get(server.URL + "/api/vouchers?address=bob")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
