package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/jobdash/internal/config"
	"github.com/khrees2412/jobdash/internal/dashboard"
	"github.com/khrees2412/jobdash/pkg/models"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) *App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:     srv.URL,
		RequestTimeout: 5 * time.Second,
		LogLevel:       "error",
		DataDir:        t.TempDir(),
	}
	a, err := New(context.Background(), cfg, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	var lastAuth string
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			_, _ = io.WriteString(w, `{"access_token":"jwt","token_type":"bearer"}`)
		case "/jobs":
			lastAuth = r.Header.Get("Authorization")
			_, _ = io.WriteString(w, `[{"id":"1","title":"Eng","company":"Acme"}]`)
		case "/tracked-jobs":
			_, _ = io.WriteString(w, `[{"id":"7","title":"Eng","company":"Acme","status":"Applied"}]`)
		default:
			http.NotFound(w, r)
		}
	})

	require.NoError(t, a.Login(ctx, "dev@example.com", "pw"))
	assert.True(t, a.Session.IsAuthenticated())
	assert.Equal(t, "dev@example.com", a.Session.Email())

	_, err := a.Dashboard.Search(ctx, models.SearchCriteria{Role: "eng"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer jwt", lastAuth)
	tracked, err := a.Tracker.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, tracked, 1)

	require.NoError(t, a.Logout(ctx))
	assert.False(t, a.Session.IsAuthenticated())
	assert.Empty(t, a.Dashboard.Snapshot().Jobs)
	assert.Empty(t, a.Tracker.Snapshot().Jobs)
	assert.ErrorIs(t, a.RequireAuth(func() error { return nil }), ErrUnauthenticated)
}

func TestLoginRejectsMissingCredentials(t *testing.T) {
	a := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request to %s", r.URL.Path)
	})

	assert.ErrorIs(t, a.Login(context.Background(), "", "pw"), ErrMissingCredentials)
	_, err := a.Register(context.Background(), "dev@example.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestNewRestoresCachedSearch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := &config.Config{APIBaseURL: "http://127.0.0.1:0", RequestTimeout: time.Second, LogLevel: "error", DataDir: dir}

	first, err := New(ctx, cfg, io.Discard)
	require.NoError(t, err)
	cache := dashboard.NewCache(first.Store, nil)
	require.NoError(t, cache.Save(ctx, models.SearchCriteria{Role: "eng"}, []models.JobListing{{ID: "1", Title: "Eng"}}))
	require.NoError(t, first.Close())

	second, err := New(ctx, cfg, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { second.Close() })

	snap := second.Dashboard.Snapshot()
	assert.Equal(t, "eng", snap.Criteria.Role)
	assert.Len(t, snap.Jobs, 1)
	assert.True(t, snap.HasSearched)
}

func TestContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoApp)

	a := &App{}
	got, err := FromContext(WithApp(context.Background(), a))
	require.NoError(t, err)
	assert.Same(t, a, got)
}

func TestLogsGoToWriter(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{APIBaseURL: "http://127.0.0.1:0", RequestTimeout: time.Second, LogLevel: "debug", DataDir: t.TempDir()}
	a, err := New(context.Background(), cfg, &buf)
	require.NoError(t, err)
	defer a.Close()

	a.Logger.Info("hello")
	assert.Contains(t, buf.String(), "hello")
}
