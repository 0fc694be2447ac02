package dashboard

import (
	"context"
	"strings"

	"github.com/khrees2412/jobdash/pkg/models"
)

// Analyze scores the resume against the selected job. Any optimization result
// is cleared when the analysis starts.
func (d *Dashboard) Analyze(ctx context.Context) (models.AnalysisResult, error) {
	d.mu.Lock()
	job, resume, err := d.requireJobAndResumeLocked()
	if err != nil {
		d.mu.Unlock()
		return models.AnalysisResult{}, err
	}
	id, err := d.startLocked(ActionAnalyze)
	if err != nil {
		d.mu.Unlock()
		return models.AnalysisResult{}, err
	}
	d.view.optimization = nil
	d.mu.Unlock()

	res, err := d.backend.AnalyzeResume(ctx, resume, job.Description)
	if err != nil {
		return models.AnalysisResult{}, d.fail(ActionAnalyze, id, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.finishLocked(ActionAnalyze, id) {
		return models.AnalysisResult{}, ErrStale
	}
	stored := res
	d.view.analysis = &stored
	d.view.optimization = nil
	return res, nil
}

// GenerateCoverLetter writes a cover letter for the selected job. The previous
// letter is cleared when generation starts.
func (d *Dashboard) GenerateCoverLetter(ctx context.Context) (string, error) {
	d.mu.Lock()
	job, resume, err := d.requireJobAndResumeLocked()
	if err != nil {
		d.mu.Unlock()
		return "", err
	}
	id, err := d.startLocked(ActionCoverLetter)
	if err != nil {
		d.mu.Unlock()
		return "", err
	}
	d.view.coverLetter = ""
	d.mu.Unlock()

	letter, err := d.backend.GenerateCoverLetter(ctx, resume, job.Description, job.Company)
	if err != nil {
		return "", d.fail(ActionCoverLetter, id, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.finishLocked(ActionCoverLetter, id) {
		return "", ErrStale
	}
	d.view.coverLetter = letter
	return letter, nil
}

// Optimize rewrites the resume for the selected job. It needs a prior analysis.
func (d *Dashboard) Optimize(ctx context.Context) (models.OptimizationResult, error) {
	d.mu.Lock()
	job, resume, err := d.requireJobAndResumeLocked()
	if err == nil && d.view.analysis == nil {
		err = ErrNoAnalysis
	}
	if err != nil {
		d.mu.Unlock()
		return models.OptimizationResult{}, err
	}
	id, err := d.startLocked(ActionOptimize)
	d.mu.Unlock()
	if err != nil {
		return models.OptimizationResult{}, err
	}

	res, err := d.backend.OptimizeResume(ctx, resume, job.Description)
	if err != nil {
		return models.OptimizationResult{}, d.fail(ActionOptimize, id, err)
	}
	res.OriginalResume = resume

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.finishLocked(ActionOptimize, id) {
		return models.OptimizationResult{}, ErrStale
	}
	stored := res
	d.view.optimization = &stored
	return res, nil
}

// requireJobAndResumeLocked returns the selected job and trimmed resume. d.mu
// must be held.
func (d *Dashboard) requireJobAndResumeLocked() (models.JobListing, string, error) {
	job, ok := d.selectedLocked()
	if !ok {
		return models.JobListing{}, "", ErrNoJobSelected
	}
	resume := strings.TrimSpace(d.view.resume)
	if resume == "" {
		return models.JobListing{}, "", ErrNoResume
	}
	return job, resume, nil
}
