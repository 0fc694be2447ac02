package dashboard

import (
	"context"

	"github.com/khrees2412/jobdash/pkg/models"
)

// Search runs a job search. Selection, analysis, matches, optimization and
// cover letter are cleared and the job list emptied before the request goes
// out. On success the results replace the list and are written to the cache;
// on failure the list stays empty and nothing is written.
func (d *Dashboard) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.JobListing, error) {
	criteria = criteria.Normalized()
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	id, err := d.startLocked(ActionSearch)
	if err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.view = view{
		criteria:    criteria,
		selected:    -1,
		resume:      d.view.resume,
		hasSearched: true,
	}
	d.mu.Unlock()

	jobs, err := d.backend.SearchJobs(ctx, criteria)
	if err != nil {
		return nil, d.fail(ActionSearch, id, err)
	}
	if jobs == nil {
		jobs = []models.JobListing{}
	}

	d.mu.Lock()
	if !d.finishLocked(ActionSearch, id) {
		d.mu.Unlock()
		return nil, ErrStale
	}
	d.view.jobs = jobs
	// saved under mu so a Reset cannot land between finishing and persisting
	if d.cache != nil {
		if err := d.cache.Save(ctx, criteria, jobs); err != nil {
			d.logger.Warn("failed to cache search results", "error", err)
		}
	}
	d.mu.Unlock()

	d.logger.Info("search completed", "role", criteria.Role, "results", len(jobs))
	return append([]models.JobListing(nil), jobs...), nil
}
