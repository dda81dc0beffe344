package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bastiangx/suggestd/pkg/dataset"
	"github.com/bastiangx/suggestd/pkg/registry"
	"github.com/bastiangx/suggestd/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var breakfast = []string{
	"Bacon", "Eggs", "Beans", "Sausage", "Veggie Sausage", "Orange Juice",
	"Tomato Juice", "Milk", "Baked Beans", "Black Sausage", "Mushrooms",
	"Shitaki Mushrooms", "Fried Bread", "Fried Eggs", "Scrambled Eggs",
	"Poached Eggs", "Omelette", "Toast", "Raisin Toast", "Croissant",
}

func newTestServer(t *testing.T, cfg Config, pageSize int) *Server {
	t.Helper()
	numbers := make([]string, 300)
	for i := range numbers {
		numbers[i] = fmt.Sprintf("item number %d", i+1)
	}
	reg := registry.FromDatasets(registry.Options{},
		dataset.New("breakfast", breakfast),
		dataset.New("numbers", numbers),
		dataset.New("empty", nil),
	)
	return NewServer(cfg, resolver.New(reg, resolver.Options{PageSize: pageSize}), reg)
}

func do(t *testing.T, s *Server, method, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestRootRedirects(t *testing.T) {
	s := newTestServer(t, Config{}, 5)
	rec := do(t, s, http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/api", rec.Header().Get("Location"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListDatasets(t *testing.T) {
	s := newTestServer(t, Config{}, 5)
	rec := do(t, s, http.MethodGet, "/api")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var listings []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	require.Len(t, listings, 3)
	assert.Equal(t, "breakfast", listings[0]["name"])
	assert.Equal(t, "empty", listings[1]["name"])
	assert.Equal(t, "numbers", listings[2]["name"])
	assert.Equal(t, "http://example.com/api/breakfast/", listings[0]["url"])
	assert.EqualValues(t, 20, listings[0]["item_count"])
}

func TestDatasetPages(t *testing.T) {
	s := newTestServer(t, Config{}, 5)

	rec := do(t, s, http.MethodGet, "/api/breakfast/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body["previous"])
	assert.Equal(t, "http://example.com/api/breakfast/?start=6", body["next"])
	assert.EqualValues(t, 1, body["start"])
	assert.Nil(t, body["matches"])
	assert.Equal(t, []any{"Bacon", "Eggs", "Beans", "Sausage", "Veggie Sausage"}, body["items"])
	assert.EqualValues(t, 5, body["count"])

	rec = do(t, s, http.MethodGet, "/api/breakfast?start=18")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "http://example.com/api/breakfast/?start=13", body["previous"])
	assert.Nil(t, body["next"])
	assert.Equal(t, []any{"Toast", "Raisin Toast", "Croissant"}, body["items"])
	assert.EqualValues(t, 3, body["count"])

	rec = do(t, s, http.MethodGet, "/api/breakfast/?start=40")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, []any{}, body["items"])
	assert.Nil(t, body["next"])
	assert.Equal(t, "http://example.com/api/breakfast/?start=16", body["previous"])

	rec = do(t, s, http.MethodGet, "/api/empty/")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, []any{}, body["items"])
	assert.Nil(t, body["previous"])
	assert.Nil(t, body["next"])
	assert.EqualValues(t, 0, body["count"])
}

func TestDatasetSuggestions(t *testing.T) {
	s := newTestServer(t, Config{}, 5)

	rec := do(t, s, http.MethodGet, "/api/breakfast/?q=eggs&size=4")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Nil(t, body["previous"])
	assert.Nil(t, body["next"])
	assert.Nil(t, body["start"])
	assert.Nil(t, body["items"])
	assert.Equal(t, []any{"Eggs", "Fried Eggs", "Scrambled Eggs", "Poached Eggs"}, body["matches"])
	assert.EqualValues(t, 4, body["count"])

	rec = do(t, s, http.MethodGet, "/api/breakfast/?q=sausage&s=SIMPLE")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Sausage", "Veggie Sausage", "Black Sausage"}, decode(t, rec)["matches"])

	rec = do(t, s, http.MethodGet, "/api/breakfast/?q=zzzqqq")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, []any{}, body["matches"])
	assert.EqualValues(t, 0, body["count"])

	rec = do(t, s, http.MethodGet, "/api/breakfast/?q=%28%29")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["matches"])
}

func TestDatasetErrors(t *testing.T) {
	s := newTestServer(t, Config{}, 5)

	testCases := []struct {
		desc   string
		target string
		status int
	}{
		{desc: "unknown dataset", target: "/api/lunch/", status: http.StatusNotFound},
		{desc: "unknown dataset with query", target: "/api/lunch/?q=eggs", status: http.StatusNotFound},
		{desc: "unknown strategy", target: "/api/breakfast/?q=eggs&s=magic", status: http.StatusBadRequest},
		{desc: "start not a number", target: "/api/breakfast/?start=abc", status: http.StatusBadRequest},
		{desc: "start zero", target: "/api/breakfast/?start=0", status: http.StatusBadRequest},
		{desc: "start negative", target: "/api/breakfast/?start=-2", status: http.StatusBadRequest},
		{desc: "size zero", target: "/api/breakfast/?q=eggs&size=0", status: http.StatusBadRequest},
		{desc: "size not a number", target: "/api/breakfast/?q=eggs&size=ten", status: http.StatusBadRequest},
		{desc: "unknown route", target: "/nope", status: http.StatusNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tc.target)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			body := decode(t, rec)
			assert.EqualValues(t, tc.status, body["status"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestPreflight(t *testing.T) {
	s := newTestServer(t, Config{}, 5)
	rec := do(t, s, http.MethodOptions, "/api/breakfast/")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: 0.001, RateBurst: 1}, 5)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/api").Code)
	rec := do(t, s, http.MethodGet, "/api")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// Health and metrics stay reachable.
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/healthz").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/metrics").Code)
}

func TestCompression(t *testing.T) {
	s := newTestServer(t, Config{}, 100)
	rec := do(t, s, http.MethodGet, "/api/numbers/", "Accept-Encoding", "gzip")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	rec = do(t, s, http.MethodGet, "/api/numbers/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
	assert.Len(t, decode(t, rec)["items"], 100)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, Config{}, 5)
	do(t, s, http.MethodGet, "/api/breakfast/?q=toast")

	rec := do(t, s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 3, body["datasets"])

	rec = do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "suggestd_http_requests_total")
	assert.Contains(t, rec.Body.String(), "suggestd_suggest_matches")
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := newTestServer(t, Config{Addr: addr, ShutdownTimeout: time.Second}, 5)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
