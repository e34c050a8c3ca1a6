package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mdtutor/mdtutor/internal/config"
	"github.com/mdtutor/mdtutor/internal/crawler"
	"github.com/mdtutor/mdtutor/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	os.Exit(m.Run())
}

func newTestServer(t *testing.T, runner Runner) *Server {
	t.Helper()
	cfg := config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Crawler: config.CrawlerConfig{TimeoutSeconds: 30, OutputDir: t.TempDir()},
	}
	return NewServer(runner, cfg, zap.NewNop())
}

func postDownload(t *testing.T, s *Server, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/v1/download", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, RunnerFunc(func(context.Context, crawler.Job) (string, error) {
		return "", nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, RunnerFunc(func(context.Context, crawler.Job) (string, error) {
		return "", nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDownloadInvalidJSON(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, RunnerFunc(func(context.Context, crawler.Job) (string, error) {
		t.Fatal("runner must not be called")
		return "", nil
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/download", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadInvalidJob(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, RunnerFunc(func(context.Context, crawler.Job) (string, error) {
		t.Fatal("runner must not be called")
		return "", nil
	}))

	rec := postDownload(t, s, map[string]any{
		"url":      "ftp://ex.com/x",
		"selector": map[string]string{"type": "class", "value": "toc"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestDownloadPipelineErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"entry unavailable", crawler.ErrEntryUnavailable, http.StatusBadGateway},
		{"no container", crawler.ErrNoContainer, http.StatusBadGateway},
		{"no links", crawler.ErrNoLinks, http.StatusBadGateway},
		{"persist failure", &crawler.PersistError{Path: "x", Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"unknown failure", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, RunnerFunc(func(context.Context, crawler.Job) (string, error) {
				return "", tt.err
			}))
			rec := postDownload(t, s, map[string]any{
				"url":      "https://ex.com/tut",
				"selector": map[string]string{"type": "class", "value": "toc"},
			})
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDownloadSuccess(t *testing.T) {
	t.Parallel()

	artifact := filepath.Join(t.TempDir(), "tutorial.md")
	require.NoError(t, os.WriteFile(artifact, []byte("# Assembled"), 0o600))

	var gotJob crawler.Job
	s := newTestServer(t, RunnerFunc(func(_ context.Context, job crawler.Job) (string, error) {
		gotJob = job
		return artifact, nil
	}))

	rec := postDownload(t, s, map[string]any{
		"url":      "https://ex.com/tut#intro",
		"selector": map[string]string{"type": "class", "value": "toc"},
		"pre_remove": map[string]string{
			"type":  "tag",
			"value": "script|style",
		},
		"filename": "go-tour.md",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Assembled", rec.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename*=UTF-8''go-tour.md", rec.Header().Get("Content-Disposition"))

	// The job arrives validated: fragment stripped, pre-removal carried.
	assert.Equal(t, "https://ex.com/tut", gotJob.BaseURL)
	require.NotNil(t, gotJob.PreRemove)
	assert.Equal(t, crawler.SelectorTag, gotJob.PreRemove.Type)
	assert.Equal(t, "go-tour.md", gotJob.Filename)
}

func TestDownloadArtifactMissing(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, RunnerFunc(func(context.Context, crawler.Job) (string, error) {
		return filepath.Join(t.TempDir(), "never-written.md"), nil
	}))

	rec := postDownload(t, s, map[string]any{
		"url":      "https://ex.com/tut",
		"selector": map[string]string{"type": "class", "value": "toc"},
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
