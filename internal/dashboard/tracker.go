package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ecodeclub/ekit/slice"

	"github.com/khrees2412/jobdash/internal/api"
	"github.com/khrees2412/jobdash/pkg/models"
)

// TrackerBackend is the part of the api client the tracker drives
type TrackerBackend interface {
	TrackJob(ctx context.Context, job models.JobListing) (models.TrackedJob, error)
	TrackedJobs(ctx context.Context) ([]models.TrackedJob, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (models.TrackedJob, error)
}

// Tracker holds the list of applications the user is tracking
type Tracker struct {
	backend TrackerBackend
	logger  *slog.Logger

	mu      sync.Mutex
	jobs    []models.TrackedJob
	loading bool
	errMsg  string
	// gen is bumped by Reset; replies issued under an older gen are dropped
	gen uint64
}

func NewTracker(backend TrackerBackend, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{backend: backend, logger: logger.With("component", "tracker")}
}

// TrackerSnapshot is a read-only copy of the tracker state
type TrackerSnapshot struct {
	Jobs    []models.TrackedJob
	Loading bool
	Error   string
}

func (t *Tracker) Snapshot() TrackerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerSnapshot{
		Jobs:    append([]models.TrackedJob(nil), t.jobs...),
		Loading: t.loading,
		Error:   t.errMsg,
	}
}

// Track records job as applied and adds it to the list
func (t *Tracker) Track(ctx context.Context, job models.JobListing) (models.TrackedJob, error) {
	gen := t.generation()
	tracked, err := t.backend.TrackJob(ctx, job)
	if err != nil {
		t.setError(err)
		return models.TrackedJob{}, err
	}

	t.mu.Lock()
	if t.gen == gen {
		t.jobs = append(append([]models.TrackedJob(nil), t.jobs...), tracked)
	}
	t.mu.Unlock()

	t.logger.Info("job tracked", "id", tracked.ID, "title", tracked.Title)
	return tracked, nil
}

// Refresh reloads the list from the backend
func (t *Tracker) Refresh(ctx context.Context) ([]models.TrackedJob, error) {
	t.mu.Lock()
	t.loading = true
	t.errMsg = ""
	gen := t.gen
	t.mu.Unlock()

	jobs, err := t.backend.TrackedJobs(ctx)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen != gen {
		return nil, ErrStale
	}
	t.loading = false
	if err != nil {
		t.errMsg = api.Message(err)
		t.logger.Warn("failed to load tracked jobs", "error", err)
		return nil, err
	}
	if jobs == nil {
		jobs = []models.TrackedJob{}
	}
	t.jobs = jobs
	return append([]models.TrackedJob(nil), jobs...), nil
}

// UpdateStatus changes the status of one tracked job. Only the status of the
// matching entry is replaced.
func (t *Tracker) UpdateStatus(ctx context.Context, id string, status models.Status) (models.TrackedJob, error) {
	updated, err := t.backend.UpdateStatus(ctx, id, status)
	if err != nil {
		t.setError(err)
		return models.TrackedJob{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs = slice.Map(t.jobs, func(_ int, j models.TrackedJob) models.TrackedJob {
		if j.ID == id {
			j.Status = updated.Status
		}
		return j
	})
	found, ok := slice.Find(t.jobs, func(j models.TrackedJob) bool { return j.ID == id })
	if !ok {
		return updated, nil
	}
	return found, nil
}

// Reset forgets the tracked list. Calls still in flight leave it untouched.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.jobs = nil
	t.loading = false
	t.errMsg = ""
}

func (t *Tracker) generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func (t *Tracker) setError(err error) {
	t.mu.Lock()
	t.errMsg = api.Message(err)
	t.mu.Unlock()
	t.logger.Warn("tracker request failed", "error", err)
}

// TrackerStats summarizes tracked applications
type TrackerStats struct {
	Total    int
	ByStatus map[models.Status]int
	// ResponseRate is the percentage of applications that moved past Applied
	ResponseRate float64
}

func Summarize(jobs []models.TrackedJob) TrackerStats {
	stats := TrackerStats{Total: len(jobs), ByStatus: map[models.Status]int{}}
	for _, j := range jobs {
		stats.ByStatus[j.Status]++
	}
	if stats.Total > 0 {
		responded := stats.Total - stats.ByStatus[models.StatusApplied]
		stats.ResponseRate = float64(responded) / float64(stats.Total) * 100
	}
	return stats
}
