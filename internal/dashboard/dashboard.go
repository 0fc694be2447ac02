package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/khrees2412/jobdash/internal/api"
	"github.com/khrees2412/jobdash/pkg/models"
)

// Backend is the part of the api client the dashboard drives
type Backend interface {
	SearchJobs(ctx context.Context, criteria models.SearchCriteria) ([]models.JobListing, error)
	AnalyzeResume(ctx context.Context, resume, jobDescription string) (models.AnalysisResult, error)
	MatchJobs(ctx context.Context, resume string, jobs []models.MatchJob) ([]models.MatchResult, error)
	GenerateCoverLetter(ctx context.Context, resume, jobDescription, company string) (string, error)
	OptimizeResume(ctx context.Context, resume, jobDescription string) (models.OptimizationResult, error)
}

// Dashboard owns the search and resume workflow state for one session.
// Every mutation replaces whole values under mu; readers only ever see
// Snapshot copies.
type Dashboard struct {
	backend Backend
	cache   *Cache
	logger  *slog.Logger

	mu      sync.Mutex
	view    view
	actions ActionState
	seq     [actionCount]uint64
}

type view struct {
	criteria     models.SearchCriteria
	jobs         []models.JobListing
	selected     int
	resume       string
	analysis     *models.AnalysisResult
	matches      []models.MatchResult
	optimization *models.OptimizationResult
	coverLetter  string
	errMsg       string
	hasSearched  bool
}

// New creates a dashboard. cache may be nil, in which case nothing is persisted.
func New(backend Backend, cache *Cache, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		backend: backend,
		cache:   cache,
		logger:  logger.With("component", "dashboard"),
		view:    view{selected: -1},
	}
}

// Snapshot is a read-only copy of the dashboard state
type Snapshot struct {
	Criteria     models.SearchCriteria
	Jobs         []models.JobListing
	Selected     int // index into Jobs, -1 when nothing is selected
	Resume       string
	Analysis     *models.AnalysisResult
	Matches      []models.MatchResult
	Optimization *models.OptimizationResult
	CoverLetter  string
	Error        string
	HasSearched  bool
	Actions      ActionState
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Snapshot{
		Criteria:    d.view.criteria,
		Jobs:        append([]models.JobListing(nil), d.view.jobs...),
		Selected:    d.view.selected,
		Resume:      d.view.resume,
		Matches:     append([]models.MatchResult(nil), d.view.matches...),
		CoverLetter: d.view.coverLetter,
		Error:       d.view.errMsg,
		HasSearched: d.view.hasSearched,
		Actions:     d.actions,
	}
	if d.view.analysis != nil {
		a := *d.view.analysis
		s.Analysis = &a
	}
	if d.view.optimization != nil {
		o := *d.view.optimization
		s.Optimization = &o
	}
	return s
}

// SelectedJob returns the selected listing
func (s Snapshot) SelectedJob() (models.JobListing, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Jobs) {
		return models.JobListing{}, false
	}
	return s.Jobs[s.Selected], true
}

func (s Snapshot) hasResume() bool {
	return strings.TrimSpace(s.Resume) != ""
}

func (s Snapshot) can(a Action, ready bool) bool {
	return ready && !s.Actions.IsAnyBusy() && !s.Actions.IsBusy(a)
}

// CanSearch reports whether a search may start. The role itself is checked
// when the search is submitted.
func (s Snapshot) CanSearch() bool {
	return s.can(ActionSearch, true)
}

func (s Snapshot) CanAnalyze() bool {
	_, selected := s.SelectedJob()
	return s.can(ActionAnalyze, s.hasResume() && selected)
}

func (s Snapshot) CanMatchAll() bool {
	return s.can(ActionMatch, s.hasResume() && len(s.Jobs) > 0)
}

func (s Snapshot) CanGenerateCoverLetter() bool {
	_, selected := s.SelectedJob()
	return s.can(ActionCoverLetter, s.hasResume() && selected)
}

func (s Snapshot) CanOptimize() bool {
	_, selected := s.SelectedJob()
	return s.can(ActionOptimize, s.hasResume() && selected && s.Analysis != nil)
}

// SelectJob selects the listing at index i
func (d *Dashboard) SelectJob(i int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if i < 0 || i >= len(d.view.jobs) {
		return ErrNotFound
	}
	d.view.selected = i
	return nil
}

// SetResume replaces the resume text. It is never persisted.
func (d *Dashboard) SetResume(text string) {
	d.mu.Lock()
	d.view.resume = text
	d.mu.Unlock()
}

// DismissError clears the error banner
func (d *Dashboard) DismissError() {
	d.mu.Lock()
	d.view.errMsg = ""
	d.mu.Unlock()
}

// CloseOptimization discards the optimization result
func (d *Dashboard) CloseOptimization() {
	d.mu.Lock()
	d.view.optimization = nil
	d.mu.Unlock()
}

// Reset drops all state and flags. Responses to calls issued before the reset
// are discarded when they arrive.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for a := range d.seq {
		d.seq[a]++
	}
	d.actions = ActionState{}
	d.view = view{selected: -1}
}

// Restore loads the last search from the cache. Unreadable slots are skipped.
func (d *Dashboard) Restore(ctx context.Context) {
	if d.cache == nil {
		return
	}
	restored := d.cache.Restore(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if restored.Criteria != nil {
		d.view.criteria = *restored.Criteria
	}
	if restored.Jobs != nil {
		d.view.jobs = restored.Jobs
		d.view.selected = -1
		d.view.hasSearched = true
	}
}

// ClearSearch forgets the last search and removes it from the cache. The
// resume is kept.
func (d *Dashboard) ClearSearch(ctx context.Context) error {
	d.mu.Lock()
	if d.actions.IsAnyBusy() {
		d.mu.Unlock()
		return ErrBusy
	}
	d.view = view{selected: -1, resume: d.view.resume}
	d.mu.Unlock()

	if d.cache == nil {
		return nil
	}
	return d.cache.Clear(ctx)
}

// startLocked applies the single-flight gate and begins a, returning the
// sequence id of the new call. d.mu must be held.
func (d *Dashboard) startLocked(a Action) (uint64, error) {
	if d.actions.IsAnyBusy() {
		return 0, ErrBusy
	}
	d.actions.Begin(a)
	d.seq[a]++
	d.view.errMsg = ""
	d.logger.Debug("action started", "action", a.String(), "seq", d.seq[a])
	return d.seq[a], nil
}

// finishLocked ends a if id is still the latest call of its kind. A false
// return means the response must be dropped. d.mu must be held.
func (d *Dashboard) finishLocked(a Action, id uint64) bool {
	if d.seq[a] != id {
		d.logger.Debug("discarding stale response", "action", a.String(), "seq", id, "latest", d.seq[a])
		return false
	}
	d.actions.End(a)
	return true
}

// fail records err in the error banner and ends a
func (d *Dashboard) fail(a Action, id uint64, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.finishLocked(a, id) {
		return ErrStale
	}
	d.view.errMsg = api.Message(err)
	d.logger.Warn("action failed", "action", a.String(), "error", err)
	return err
}

func (d *Dashboard) selectedLocked() (models.JobListing, bool) {
	if d.view.selected < 0 || d.view.selected >= len(d.view.jobs) {
		return models.JobListing{}, false
	}
	return d.view.jobs[d.view.selected], true
}
