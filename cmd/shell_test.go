package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/jobdash/internal/app"
	"github.com/khrees2412/jobdash/internal/config"
)

func newShellApp(t *testing.T, handler http.HandlerFunc) *app.App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		APIBaseURL:     srv.URL,
		RequestTimeout: 5 * time.Second,
		LogLevel:       "error",
		DataDir:        t.TempDir(),
	}
	a, err := app.New(context.Background(), cfg, io.Discard)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func runShell(t *testing.T, a *app.App, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, newShell(a, strings.NewReader(input), &out).run(context.Background()))
	return out.String()
}

func backendHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs":
			_, _ = io.WriteString(w, `[{"id":"1","title":"Eng","company":"Acme","description":"Go services","apply_link":"https://acme.example/apply"}]`)
		case "/analyze-resume":
			_, _ = io.WriteString(w, `{"ats_score":77,"missing_keywords":["k8s, terraform"],"strengths":["Go"],"improvements":"Add metrics"}`)
		case "/generate-optimized-resume":
			_, _ = io.WriteString(w, `{"optimized_resume":"Better resume","original_score":77,"new_score":90}`)
		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestShellWorkflow(t *testing.T) {
	a := newShellApp(t, backendHandler(t))

	input := strings.Join([]string{
		"search", "engineer", "", "", "n",
		"wait",
		"select 1",
		"optimize",
		"wait",
		"paste", "Go developer", ".",
		"analyze",
		"wait",
		"optimize",
		"wait",
		"status",
		"quit",
	}, "\n") + "\n"

	out := runShell(t, a, input)

	assert.Contains(t, out, "Found 1 jobs")
	assert.Contains(t, out, "Selected Eng at Acme")
	assert.Contains(t, out, "add your resume first")
	assert.Contains(t, out, "77/100")
	assert.Contains(t, out, "k8s, terraform")
	assert.Contains(t, out, "Better resume")
	assert.Contains(t, out, "77 -> 90")

	snap := a.Dashboard.Snapshot()
	require.NotNil(t, snap.Analysis)
	require.NotNil(t, snap.Optimization)
	assert.Equal(t, "engineer", snap.Criteria.Role)
}

func TestShellGuardsTracker(t *testing.T) {
	a := newShellApp(t, backendHandler(t))

	out := runShell(t, a, "tracker\napply\nfrobnicate\nquit\n")

	assert.Contains(t, out, "You need to log in first")
	assert.Contains(t, out, "select a job first")
	assert.Contains(t, out, `Unknown command "frobnicate"`)
}

func TestShellRejectsEmptyRole(t *testing.T) {
	a := newShellApp(t, backendHandler(t))

	out := runShell(t, a, "search\n\n\n\n\nquit\n")

	assert.Contains(t, out, "role is required")
	assert.False(t, a.Dashboard.Snapshot().HasSearched)
}
