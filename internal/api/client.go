package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/khrees2412/jobdash/internal/normalize"
	"github.com/khrees2412/jobdash/pkg/models"
)

const requestIDHeader = "X-Request-ID"

// TokenSource yields the current bearer token, or "" when logged out
type TokenSource interface {
	Token() string
}

// Client talks to the job search backend
type Client struct {
	http   *resty.Client
	tokens TokenSource
	logger *slog.Logger
}

// New creates a backend client. tokens may be nil for unauthenticated use.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: logger}).
		SetDisableWarn(true)
	return &Client{http: rc, tokens: tokens, logger: logger}
}

// restyLogger sends resty's own diagnostics to slog
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "source", "resty")
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...), "source", "resty")
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "source", "resty")
}

func (c *Client) request(ctx context.Context, reqID string) *resty.Request {
	req := c.http.R().SetContext(ctx).SetHeader(requestIDHeader, reqID)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.SetAuthToken(token)
		}
	}
	return req
}

// do executes one request and returns the response body of a 2xx reply
func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request)) (gjson.Result, error) {
	reqID := uuid.NewString()
	req := c.request(ctx, reqID)
	if build != nil {
		build(req)
	}

	log := c.logger.With("request_id", reqID, "method", method, "path", path)
	start := time.Now()
	resp, err := req.Execute(method, path)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		if isTimeout(err) {
			log.Warn("request timed out", "duration_ms", elapsed)
			return gjson.Result{}, ErrTimeout
		}
		log.Error("request failed", "error", err, "duration_ms", elapsed)
		return gjson.Result{}, fmt.Errorf("%s %s: %w", method, path, err)
	}

	log = log.With("status", resp.StatusCode(), "duration_ms", elapsed)
	if !resp.IsSuccess() {
		apiErr := &Error{
			StatusCode: resp.StatusCode(),
			Message:    DetailMessage(resp.Body(), GenericMessage),
			RequestID:  reqID,
		}
		log.Warn("backend returned error", "message", apiErr.Message)
		return gjson.Result{}, apiErr
	}

	log.Debug("request completed")
	return gjson.ParseBytes(resp.Body()), nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns the backend's confirmation message
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/register", func(r *resty.Request) {
		r.SetBody(credentials{Email: email, Password: password})
	})
	if err != nil {
		return "", err
	}
	return body.Get("message").String(), nil
}

// Login exchanges credentials for an access token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", func(r *resty.Request) {
		r.SetBody(credentials{Email: email, Password: password})
	})
	if err != nil {
		return "", err
	}
	token := body.Get("access_token").String()
	if token == "" {
		return "", &Error{StatusCode: http.StatusOK, Message: "login response did not include an access token"}
	}
	return token, nil
}

// SearchJobs queries listings. Empty location, false last_24 and an empty
// experience level are left off the query.
func (c *Client) SearchJobs(ctx context.Context, criteria models.SearchCriteria) ([]models.JobListing, error) {
	body, err := c.do(ctx, http.MethodGet, "/jobs", func(r *resty.Request) {
		r.SetQueryParam("role", criteria.Role)
		if criteria.Location != "" {
			r.SetQueryParam("location", criteria.Location)
		}
		if criteria.Last24 {
			r.SetQueryParam("last_24", "true")
		}
		if criteria.ExperienceLevel != "" {
			r.SetQueryParam("experience_level", criteria.ExperienceLevel)
		}
	})
	if err != nil {
		return nil, err
	}
	return normalize.Jobs(body), nil
}

type resumeJobRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
}

// AnalyzeResume scores a resume against one job description
func (c *Client) AnalyzeResume(ctx context.Context, resume, jobDescription string) (models.AnalysisResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/analyze-resume", func(r *resty.Request) {
		r.SetBody(resumeJobRequest{ResumeText: resume, JobDescription: jobDescription})
	})
	if err != nil {
		return models.AnalysisResult{}, err
	}
	return normalize.Analysis(body), nil
}

type matchRequest struct {
	ResumeText string            `json:"resume_text"`
	Jobs       []models.MatchJob `json:"jobs"`
}

// MatchJobs scores a resume against many jobs in one call
func (c *Client) MatchJobs(ctx context.Context, resume string, jobs []models.MatchJob) ([]models.MatchResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/match-jobs", func(r *resty.Request) {
		r.SetBody(matchRequest{ResumeText: resume, Jobs: jobs})
	})
	if err != nil {
		return nil, err
	}
	return normalize.MatchResults(body), nil
}

type coverLetterRequest struct {
	ResumeText     string `json:"resume_text"`
	JobDescription string `json:"job_description"`
	Company        string `json:"company"`
}

// GenerateCoverLetter writes a cover letter for one job
func (c *Client) GenerateCoverLetter(ctx context.Context, resume, jobDescription, company string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/generate-cover-letter", func(r *resty.Request) {
		r.SetBody(coverLetterRequest{ResumeText: resume, JobDescription: jobDescription, Company: company})
	})
	if err != nil {
		return "", err
	}
	return body.Get("cover_letter").String(), nil
}

// OptimizeResume rewrites a resume for one job and reports both scores.
// OriginalResume is filled from the input.
func (c *Client) OptimizeResume(ctx context.Context, resume, jobDescription string) (models.OptimizationResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/generate-optimized-resume", func(r *resty.Request) {
		r.SetBody(resumeJobRequest{ResumeText: resume, JobDescription: jobDescription})
	})
	if err != nil {
		return models.OptimizationResult{}, err
	}
	return models.OptimizationResult{
		OriginalResume:  resume,
		OptimizedResume: body.Get("optimized_resume").String(),
		OriginalScore:   body.Get("original_score").Float(),
		NewScore:        body.Get("new_score").Float(),
	}, nil
}

type trackRequest struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	Location  string `json:"location,omitempty"`
	ApplyLink string `json:"apply_link,omitempty"`
}

// TrackJob records a job as applied
func (c *Client) TrackJob(ctx context.Context, job models.JobListing) (models.TrackedJob, error) {
	body, err := c.do(ctx, http.MethodPost, "/track-job", func(r *resty.Request) {
		r.SetBody(trackRequest{
			Title:     job.Title,
			Company:   job.Company,
			Location:  job.Location,
			ApplyLink: job.ApplyLink,
		})
	})
	if err != nil {
		return models.TrackedJob{}, err
	}
	return normalize.TrackedJob(body), nil
}

// TrackedJobs lists the user's tracked applications
func (c *Client) TrackedJobs(ctx context.Context) ([]models.TrackedJob, error) {
	body, err := c.do(ctx, http.MethodGet, "/tracked-jobs", nil)
	if err != nil {
		return nil, err
	}
	return normalize.TrackedJobs(body), nil
}

// UpdateStatus moves a tracked job to a new status
func (c *Client) UpdateStatus(ctx context.Context, id string, status models.Status) (models.TrackedJob, error) {
	body, err := c.do(ctx, http.MethodPut, "/update-status/{id}", func(r *resty.Request) {
		r.SetPathParam("id", id)
		r.SetBody(map[string]string{"status": string(status)})
	})
	if err != nil {
		return models.TrackedJob{}, err
	}
	return normalize.TrackedJob(body), nil
}
