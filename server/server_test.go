// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	snapshots "github.com/jaonoctus/bitcoin-snapshots"
	"github.com/jaonoctus/bitcoin-snapshots/cbor"
	"github.com/jaonoctus/bitcoin-snapshots/internal/test"
	"github.com/jaonoctus/bitcoin-snapshots/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRegistry() *snapshots.Registry {
	return test.RegistryFixture(
		test.NetworkFixture("signet"),
		test.NetworkFixtureWithAssumeUtxo("mutinynet", "1000000"),
	)
}

func newTestServer(t *testing.T, options ...server.ServerOptionFunc) *server.Server {
	t.Helper()
	options = append(
		[]server.ServerOptionFunc{
			server.WithRegistry(testRegistry()),
			server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
			server.WithMetricsRegistry(prometheus.NewRegistry()),
		},
		options...,
	)
	s, err := server.New(options...)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *server.Server, target string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPageOverview(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("ETag"))
	assert.NotEmpty(t, rec.Header().Get(server.RequestIdHeader))
	body := rec.Body.String()
	assert.Contains(t, body, `lang="en-US"`)
	assert.Contains(t, body, ">237,052<")
	assert.Contains(t, body, ">11,671,351<")
	assert.Contains(t, body, "sha256sum --check --ignore-missing digests.txt")
	assert.Contains(t, body, "gpg --verify digests.txt.asc")
	assert.Contains(t, body, `href="https://snapshots.example.com/digests.txt.asc"`)
	assert.Contains(t, body, `<a class="donate" href="https://zbd.gg/jaonoctus" target="_blank" rel="noopener noreferrer">`)
	assert.Contains(t, body, `<span class="badge">jaonoctus@zbd.gg</span>`)
	assert.Contains(t, body, `href="/?dialog=snapshot&amp;network=signet"`)
	// Only mutinynet publishes a UTXO set file
	assert.Contains(t, body, `href="/?dialog=assumeutxo&amp;network=mutinynet"`)
	assert.NotContains(t, body, `href="/?dialog=assumeutxo&amp;network=signet"`)
	assert.NotContains(t, body, `role="dialog"`)
	assert.NotContains(t, body, "<table>")
}

func TestPageDetails(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/?tab=details", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, ">11,671,351<")
	assert.Contains(t, body, "0A28 54DA 805A C8FE")
	assert.Contains(t, body, "11,176,027.19924825 BTC")
	assert.NotContains(t, body, "Verify Downloads")
}

func TestPageDialog(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/?tab=details&dialog=snapshot&network=signet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `role="dialog"`)
	assert.Contains(t, body, "https://snapshots.example.com/signet.tar.zst")
	assert.Contains(t, body, `href="/download/signet/snapshot"`)
	assert.Contains(t, body, `href="/?tab=details"`)
}

func TestPageUsageError(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/?tab=details&dialog=assumeutxo&network=signet", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	// The valid part of the query is still rendered
	assert.Contains(t, body, "<table>")
	assert.NotContains(t, body, `role="dialog"`)
	metrics := get(t, s, "/metrics", nil).Body.String()
	assert.Contains(t, metrics, `snapshots_view_usage_errors_total{op="openAssumeUtxoDialog"} 1`)
}

func TestPageLocale(t *testing.T) {
	s := newTestServer(t)
	testDefs := []struct {
		acceptLanguage string
		expectedLang   string
		expectedHeight string
	}{
		{"de-DE,de;q=0.9", "de", ">237.052<"},
		{"pt-BR", "pt-BR", ">237.052<"},
		{"en-GB,en;q=0.8", "en-US", ">237,052<"},
		{"fr", "en-US", ">237,052<"},
		{"", "en-US", ">237,052<"},
	}
	for _, testDef := range testDefs {
		rec := get(t, s, "/", map[string]string{"Accept-Language": testDef.acceptLanguage})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `lang="`+testDef.expectedLang+`"`, "Accept-Language %q", testDef.acceptLanguage)
		assert.Contains(t, body, testDef.expectedHeight, "Accept-Language %q", testDef.acceptLanguage)
		assert.Equal(t, "Accept-Language", rec.Header().Get("Vary"))
	}
}

func TestPageETag(t *testing.T) {
	s := newTestServer(t)
	first := get(t, s, "/?tab=details", nil)
	tag := first.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.True(t, strings.HasPrefix(tag, `"`) && strings.HasSuffix(tag, `"`))
	again := get(t, s, "/?tab=details", map[string]string{"If-None-Match": tag})
	assert.Equal(t, http.StatusNotModified, again.Code)
	assert.Empty(t, again.Body.Bytes())
	other := get(t, s, "/", map[string]string{"If-None-Match": tag})
	assert.Equal(t, http.StatusOK, other.Code)
	assert.NotEqual(t, tag, other.Header().Get("ETag"))
}

func TestDownload(t *testing.T) {
	s := newTestServer(t)
	testDefs := []struct {
		path             string
		expectedStatus   int
		expectedLocation string
	}{
		{"/download/signet/snapshot", http.StatusFound, "https://snapshots.example.com/signet.tar.zst"},
		{"/download/mutinynet/assumeutxo", http.StatusFound, "https://snapshots.example.com/utxo-mutinynet-1000000.dat.zst"},
		{"/download/signet/assumeutxo", http.StatusBadRequest, ""},
		{"/download/mainnet/snapshot", http.StatusNotFound, ""},
		{"/download/signet/torrent", http.StatusNotFound, ""},
	}
	for _, testDef := range testDefs {
		rec := get(t, s, testDef.path, nil)
		assert.Equal(t, testDef.expectedStatus, rec.Code, "path %s", testDef.path)
		assert.Equal(t, testDef.expectedLocation, rec.Header().Get("Location"), "path %s", testDef.path)
	}
	metrics := get(t, s, "/metrics", nil).Body.String()
	assert.Contains(t, metrics, `snapshots_download_redirects_total{kind="snapshot",network="signet"} 1`)
	assert.Contains(t, metrics, `snapshots_download_redirects_total{kind="assumeutxo",network="mutinynet"} 1`)
}

func TestApiNetworksJSON(t *testing.T) {
	reg := testRegistry()
	s := newTestServer(t, server.WithRegistry(reg))
	rec := get(t, s, "/api/networks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	var doc snapshots.RegistryDocument
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, reg.Document(), &doc)
	decoded, err := snapshots.NewRegistryFromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, reg.Networks(), decoded.Networks())
}

func TestApiNetworksCBOR(t *testing.T) {
	reg := testRegistry()
	s := newTestServer(t, server.WithRegistry(reg))
	rec := get(t, s, "/api/networks", map[string]string{"Accept": cbor.ContentType})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, cbor.ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "Accept", rec.Header().Get("Vary"))
	var doc snapshots.RegistryDocument
	_, err := cbor.Decode(rec.Body.Bytes(), &doc)
	require.NoError(t, err)
	assert.Equal(t, reg.Document(), &doc)
	// Encoding is deterministic, so the entity tag is stable
	again := get(t, s, "/api/networks", map[string]string{"Accept": cbor.ContentType})
	assert.Equal(t, rec.Header().Get("ETag"), again.Header().Get("ETag"))
}

func TestApiNetwork(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/networks/mutinynet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var record snapshots.NetworkRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "mutinynet", record.Id)
	assert.Equal(t, "1000000", record.AssumeUtxoHeight)
	rec = get(t, s, "/api/networks/mainnet", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = get(t, s, "/api/networks/signet", map[string]string{"Accept": "text/plain"})
	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","networks":2}`, rec.Body.String())
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/", nil)
	get(t, s, "/nope", nil)
	rec := get(t, s, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "snapshots_registry_networks 2")
	assert.Contains(t, body, `snapshots_http_requests_total{method="GET",path="/",status="200"} 1`)
	assert.Contains(t, body, `snapshots_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
}

func TestRequestIdPassthrough(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/healthz", map[string]string{server.RequestIdHeader: "abc-123"})
	assert.Equal(t, "abc-123", rec.Header().Get(server.RequestIdHeader))
}

func TestStartStop(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := newTestServer(t, server.WithAddress("127.0.0.1:0"))
	// Stopping a server that never started is a no-op
	require.NoError(t, s.Stop(context.Background()))
	s = newTestServer(t, server.WithAddress("127.0.0.1:0"))
	require.NoError(t, s.Start())
	require.NotNil(t, s.Addr())
	transport := &http.Transport{DisableKeepAlives: true}
	client := &http.Client{Transport: transport, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + s.Addr().String() + "/healthz")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	transport.CloseIdleConnections()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	// A second stop is harmless
	require.NoError(t, s.Stop(ctx))
}
