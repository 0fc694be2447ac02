package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/jobdash/pkg/models"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, staticToken(token), nil)
}

func TestSearchJobsQueryAndHeaders(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"1","title":"Go Dev","company":"Acme","match_percentage":71}]`)
	}, "tok-123")

	jobs, err := c.SearchJobs(context.Background(), models.SearchCriteria{Role: "go developer"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NotNil(t, jobs[0].MatchScore)
	assert.Equal(t, 71.0, *jobs[0].MatchScore)

	require.NotNil(t, got)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/jobs", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "go developer", q.Get("role"))
	assert.False(t, q.Has("location"))
	assert.False(t, q.Has("last_24"))
	assert.False(t, q.Has("experience_level"))
	assert.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get(requestIDHeader))
}

func TestSearchJobsAllFilters(t *testing.T) {
	var query map[string][]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		_, _ = io.WriteString(w, `[]`)
	}, "")

	jobs, err := c.SearchJobs(context.Background(), models.SearchCriteria{
		Role:            "sre",
		Location:        "Berlin",
		ExperienceLevel: models.LevelSenior,
		Last24:          true,
	})
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, []string{"Berlin"}, query["location"])
	assert.Equal(t, []string{"true"}, query["last_24"])
	assert.Equal(t, []string{"senior"}, query["experience_level"])
}

func TestNoAuthorizationWhenLoggedOut(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `[]`)
	}, "")

	_, err := c.TrackedJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestErrorDetailPrecedence(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Email already registered"}`, "Email already registered"},
		{"nested error", http.StatusInternalServerError, `{"detail":{"error":"Scraper offline"}}`, "Scraper offline"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"msg":"field required"}]}`, GenericMessage},
		{"no body", http.StatusBadGateway, ``, GenericMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = io.WriteString(w, tt.body)
			}, "")

			_, err := c.AnalyzeResume(context.Background(), "resume", "jd")
			require.Error(t, err)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.code, apiErr.StatusCode)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.want, Message(err))
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func TestTimeoutIsReported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, 50*time.Millisecond, nil, nil)
	_, err := c.TrackedJobs(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, "request timed out", Message(err))
}

func TestLogin(t *testing.T) {
	var body credentials
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{"access_token":"jwt","token_type":"bearer"}`)
	}, "")

	token, err := c.Login(context.Background(), "a@b.co", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jwt", token)
	assert.Equal(t, credentials{Email: "a@b.co", Password: "pw"}, body)
}

func TestLoginWithoutToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"token_type":"bearer"}`)
	}, "")

	_, err := c.Login(context.Background(), "a@b.co", "pw")
	assert.Error(t, err)
}

func TestMatchJobsSendsJobsAndAliasesScores(t *testing.T) {
	var req matchRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/match-jobs", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = io.WriteString(w, `[{"title":"Go Dev","company":"Acme","match_score":88,"reasoning":"strong"}]`)
	}, "tok")

	results, err := c.MatchJobs(context.Background(), "my resume", []models.MatchJob{
		{Title: "Go Dev", Company: "Acme", Description: "Go"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 88.0, *results[0].MatchScore)
	assert.Equal(t, 88.0, *results[0].MatchPercentage)
	assert.Equal(t, "my resume", req.ResumeText)
	assert.Len(t, req.Jobs, 1)
}

func TestOptimizeResume(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate-optimized-resume", r.URL.Path)
		_, _ = io.WriteString(w, `{"optimized_resume":"better","original_score":61,"new_score":84}`)
	}, "tok")

	res, err := c.OptimizeResume(context.Background(), "orig", "jd")
	require.NoError(t, err)
	assert.Equal(t, models.OptimizationResult{
		OriginalResume:  "orig",
		OptimizedResume: "better",
		OriginalScore:   61,
		NewScore:        84,
	}, res)
}

func TestUpdateStatus(t *testing.T) {
	var method, path, status string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		status = body["status"]
		_, _ = io.WriteString(w, `{"id":7,"title":"Go Dev","company":"Acme","status":"Interview"}`)
	}, "tok")

	job, err := c.UpdateStatus(context.Background(), "7", models.StatusInterview)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/update-status/7", path)
	assert.Equal(t, "Interview", status)
	assert.Equal(t, "7", job.ID)
	assert.Equal(t, models.StatusInterview, job.Status)
}
