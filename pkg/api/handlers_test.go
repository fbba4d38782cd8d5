package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

const testAPIKey = "test-key"

// newTestRouter builds the full route table with an isolated metrics
// registry so tests never collide on the global prometheus state.
func newTestRouter(maxRequestBytes int64) http.Handler {
	config := ServerConfig{
		Port:            0,
		Bind:            "127.0.0.1",
		APIKey:          testAPIKey,
		MaxRequestBytes: maxRequestBytes,
	}
	metrics := newMetricsWithRegistry(prometheus.NewRegistry())
	return newRouter(config, metrics)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte, withKey bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if withKey {
		req.Header.Set("X-API-Key", testAPIKey)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeErrorEnvelope(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error envelope: %v (body %q)", err, w.Body.String())
	}
	return resp
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "GET", "/api/v1/health", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}

	w = doRequest(t, router, "POST", "/api/v1/hex/encode", []byte("hi"), false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", w.Code)
	}

	resp := decodeErrorEnvelope(t, w)
	if resp.Success {
		t.Error("Expected Success=false on auth failure")
	}
}

func TestRouter_MetricsEndpointUnprotected(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "GET", "/metrics", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for /metrics without key, got %d", w.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "GET", "/api/v1/health", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("Expected success to be true")
	}

	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map data, got %T", resp.Data)
	}
	if data["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %q", data["status"])
	}
}

func TestRouter_Codecs(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "GET", "/api/v1/codecs", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var resp struct {
		Success bool        `json:"success"`
		Data    []CodecInfo `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Data) != 4 {
		t.Fatalf("Expected 4 codecs, got %d", len(resp.Data))
	}

	names := map[string]bool{}
	for _, c := range resp.Data {
		names[c.Name] = true
		if len(c.Operations) == 0 {
			t.Errorf("Codec %q lists no operations", c.Name)
		}
	}
	for _, want := range []string{"hex", "url", "zero", "zero-one"} {
		if !names[want] {
			t.Errorf("Codec %q missing from listing", want)
		}
	}
}

func TestHexEncodeEndpoint(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "POST", "/api/v1/hex/encode", []byte("skald"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body %q)", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "736b616c64" {
		t.Errorf("Expected %q, got %q", "736b616c64", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Expected text/plain response, got %s", ct)
	}
}

func TestHexDecodeEndpoint(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "POST", "/api/v1/hex/decode", []byte("736B616C64"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body %q)", w.Code, w.Body.String())
	}
	if got := w.Body.String(); got != "skald" {
		t.Errorf("Expected %q, got %q", "skald", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Expected octet-stream response, got %s", ct)
	}
}

func TestHexDecodeEndpoint_RejectsMalformedInput(t *testing.T) {
	router := newTestRouter(0)

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid digit", body: "zz"},
		{name: "odd length", body: "abc"},
		{name: "embedded whitespace", body: "61 62"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "POST", "/api/v1/hex/decode", []byte(tt.body), true)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d (body %q)", w.Code, w.Body.String())
			}
			resp := decodeErrorEnvelope(t, w)
			if resp.Error == "" {
				t.Error("Expected error message in envelope")
			}
		})
	}
}

func TestHexDumpEndpoint(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "POST", "/api/v1/hex/dump", []byte{0xAB, 0x01}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "BA10" {
		t.Errorf("Expected %q, got %q", "BA10", got)
	}
}

func TestURLEncodeEndpoint(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "POST", "/api/v1/url/encode", []byte("user data: 100%"), true)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if got := w.Body.String(); got != "user%20data%3A%20100%25" {
		t.Errorf("Expected %q, got %q", "user%20data%3A%20100%25", got)
	}
}

func TestURLDecodeEndpoint(t *testing.T) {
	router := newTestRouter(0)

	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{
			name: "plus kept by default",
			path: "/api/v1/url/decode",
			body: "100%25+done",
			want: "100%+done",
		},
		{
			name: "plus as space",
			path: "/api/v1/url/decode?plus=true",
			body: "100%25+done",
			want: "100% done",
		},
		{
			name: "plus explicitly off",
			path: "/api/v1/url/decode?plus=false",
			body: "a+b",
			want: "a+b",
		},
		{
			name: "lenient on stray percent",
			path: "/api/v1/url/decode",
			body: "100% done",
			want: "100% done",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, "POST", tt.path, []byte(tt.body), true)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d (body %q)", w.Code, w.Body.String())
			}
			if got := w.Body.String(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestURLDecodeEndpoint_RejectsBadPlusParam(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "POST", "/api/v1/url/decode?plus=banana", []byte("a+b"), true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
	resp := decodeErrorEnvelope(t, w)
	if resp.Error == "" {
		t.Error("Expected error message in envelope")
	}
}

func TestZeroEndpoints_RoundTrip(t *testing.T) {
	router := newTestRouter(0)
	raw := []byte{1, 0, 0, 0, 0, 0, 2}

	w := doRequest(t, router, "POST", "/api/v1/zero/encode", raw, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Encode: expected 200, got %d", w.Code)
	}
	encoded := w.Body.Bytes()
	if string(encoded) != string([]byte{1, 0, 5, 2}) {
		t.Fatalf("Expected encoded % x, got % x", []byte{1, 0, 5, 2}, encoded)
	}

	w = doRequest(t, router, "POST", "/api/v1/zero/decode", encoded, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Decode: expected 200, got %d", w.Code)
	}
	if got := w.Body.Bytes(); string(got) != string(raw) {
		t.Errorf("Round trip mismatch: expected % x, got % x", raw, got)
	}
}

func TestZeroOneEndpoints_RoundTrip(t *testing.T) {
	router := newTestRouter(0)
	raw := []byte{0xFF, 0xFF, 0xFF, 0x00, 0x42}

	w := doRequest(t, router, "POST", "/api/v1/zero-one/encode", raw, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Encode: expected 200, got %d", w.Code)
	}
	encoded := w.Body.Bytes()
	if string(encoded) != string([]byte{0xFF, 3, 0x00, 1, 0x42}) {
		t.Fatalf("Expected encoded % x, got % x", []byte{0xFF, 3, 0x00, 1, 0x42}, encoded)
	}

	w = doRequest(t, router, "POST", "/api/v1/zero-one/decode", encoded, true)
	if w.Code != http.StatusOK {
		t.Fatalf("Decode: expected 200, got %d", w.Code)
	}
	if got := w.Body.Bytes(); string(got) != string(raw) {
		t.Errorf("Round trip mismatch: expected % x, got % x", raw, got)
	}
}

func TestZeroDecodeEndpoint_RejectsTruncatedEscape(t *testing.T) {
	router := newTestRouter(0)

	w := doRequest(t, router, "POST", "/api/v1/zero/decode", []byte{0x07, 0x00}, true)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (body %q)", w.Code, w.Body.String())
	}
	resp := decodeErrorEnvelope(t, w)
	if resp.Error == "" {
		t.Error("Expected error message in envelope")
	}
}

func TestRequestBodyLimit(t *testing.T) {
	router := newTestRouter(16)

	w := doRequest(t, router, "POST", "/api/v1/hex/encode", bytes.Repeat([]byte{'a'}, 64), true)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("Expected 413, got %d (body %q)", w.Code, w.Body.String())
	}

	w = doRequest(t, router, "POST", "/api/v1/hex/encode", bytes.Repeat([]byte{'a'}, 16), true)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for body at the limit, got %d", w.Code)
	}
}
