package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/uhi-synth/internal/config"
	"github.com/sells-group/uhi-synth/internal/metrics"
	"github.com/sells-group/uhi-synth/internal/model"
	"github.com/sells-group/uhi-synth/internal/store"
)

func testServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	srv := httptest.NewServer(newRouter(st, config.ServerConfig{
		RateLimit: 1000,
		RateBurst: 1000,
		MaxCells:  10000,
	}))
	t.Cleanup(srv.Close)
	return srv, st
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_Health(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_GenerateDataset(t *testing.T) {
	srv, _ := testServer(t)

	resp := postJSON(t, srv.URL+"/datasets", map[string]any{"rows": 3, "cols": 4, "seed": 42})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ds := decodeBody[model.Dataset](t, resp)
	assert.Len(t, ds.Records, 12)
	assert.Equal(t, 3, ds.Meta.Rows)
	assert.Equal(t, 4, ds.Meta.Cols)
	assert.Equal(t, int64(42), ds.Meta.Seed)
}

func TestServer_GenerateRecordsRun(t *testing.T) {
	srv, st := testServer(t)

	resp := postJSON(t, srv.URL+"/datasets", map[string]any{"rows": 5, "cols": 5, "seed": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 25, runs[0].Summary.Samples)
}

func TestServer_GenerateBadRequests(t *testing.T) {
	srv, _ := testServer(t)

	tests := []struct {
		name    string
		body    any
		raw     string
		wantErr string
	}{
		{"zero rows", map[string]any{"rows": 0, "cols": 4}, "", "must be positive"},
		{"negative cols", map[string]any{"rows": 4, "cols": -1}, "", "must be positive"},
		{"grid too large", map[string]any{"rows": 200, "cols": 200}, "", "exceeds"},
		{"malformed body", nil, "{not json", "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.raw != "" {
				var err error
				resp, err = http.Post(srv.URL+"/datasets", "application/json", bytes.NewBufferString(tt.raw))
				require.NoError(t, err)
			} else {
				resp = postJSON(t, srv.URL+"/datasets", tt.body)
			}
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody[map[string]string](t, resp)
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestServer_Runs(t *testing.T) {
	srv, st := testServer(t)
	ctx := context.Background()

	resp, err := http.Get(srv.URL + "/runs")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[[]model.GenerationRun](t, resp))

	run, err := st.CreateRun(ctx, 40, 40, 42)
	require.NoError(t, err)

	resp, err = http.Get(srv.URL + "/runs")
	require.NoError(t, err)
	runs := decodeBody[[]model.GenerationRun](t, resp)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)

	resp, err = http.Get(srv.URL + "/runs/" + run.ID)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decodeBody[model.GenerationRun](t, resp)
	assert.Equal(t, run.ID, got.ID)

	resp, err = http.Get(srv.URL + "/runs/no-such-id")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestServer_GenerateInstrumented(t *testing.T) {
	srv, _ := testServer(t)

	completeBefore := testutil.ToFloat64(metrics.DatasetsGenerated.WithLabelValues("api", "complete"))
	cellsBefore := testutil.ToFloat64(metrics.CellsGenerated)

	resp := postJSON(t, srv.URL+"/datasets", map[string]any{"rows": 4, "cols": 4, "seed": 9})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, completeBefore+1, testutil.ToFloat64(metrics.DatasetsGenerated.WithLabelValues("api", "complete")))
	assert.Equal(t, cellsBefore+16, testutil.ToFloat64(metrics.CellsGenerated))

	invalidBefore := testutil.ToFloat64(metrics.DatasetsGenerated.WithLabelValues("api", "invalid"))
	resp = postJSON(t, srv.URL+"/datasets", map[string]any{"rows": 0, "cols": 4})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, invalidBefore+1, testutil.ToFloat64(metrics.DatasetsGenerated.WithLabelValues("api", "invalid")))
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := testServer(t)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_RateLimit(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	srv := httptest.NewServer(newRouter(st, config.ServerConfig{
		RateLimit: 0.001,
		RateBurst: 1,
		MaxCells:  100,
	}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	resp.Body.Close()
}
