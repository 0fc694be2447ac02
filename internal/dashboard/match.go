package dashboard

import (
	"context"
	"strings"

	"github.com/ecodeclub/ekit/slice"

	"github.com/khrees2412/jobdash/pkg/models"
)

const (
	unknownCompany     = "Unknown"
	missingDescription = "No description available"
)

// MatchAll scores the resume against every listed job and merges the scores
// back onto the list.
func (d *Dashboard) MatchAll(ctx context.Context) ([]models.MatchResult, error) {
	d.mu.Lock()
	resume := strings.TrimSpace(d.view.resume)
	jobs := d.view.jobs
	switch {
	case resume == "":
		d.mu.Unlock()
		return nil, ErrNoResume
	case len(jobs) == 0:
		d.mu.Unlock()
		return nil, ErrNoJobs
	}
	id, err := d.startLocked(ActionMatch)
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}

	results, err := d.backend.MatchJobs(ctx, resume, MatchRequest(jobs))
	if err != nil {
		return nil, d.fail(ActionMatch, id, err)
	}
	if results == nil {
		results = []models.MatchResult{}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.finishLocked(ActionMatch, id) {
		return nil, ErrStale
	}
	d.view.matches = results
	d.view.jobs = MergeMatches(d.view.jobs, results)
	d.logger.Info("match completed", "jobs", len(d.view.jobs), "results", len(results))
	return append([]models.MatchResult(nil), results...), nil
}

// MatchRequest reduces listings to the fields the match endpoint takes,
// filling in a missing company or description.
func MatchRequest(jobs []models.JobListing) []models.MatchJob {
	return slice.Map(jobs, func(_ int, j models.JobListing) models.MatchJob {
		return models.MatchJob{
			Title:       j.Title,
			Company:     orDefault(j.Company, unknownCompany),
			Description: orDefault(j.Description, missingDescription),
		}
	})
}

// MergeMatches returns a new list where each job carries the score of the
// result with the same title and company, compared trimmed and case-folded.
// Jobs without a result have score, reasoning and confidence cleared.
func MergeMatches(jobs []models.JobListing, results []models.MatchResult) []models.JobListing {
	return slice.Map(jobs, func(_ int, job models.JobListing) models.JobListing {
		title := matchKey(job.Title)
		company := matchKey(orDefault(job.Company, unknownCompany))
		match, ok := slice.Find(results, func(r models.MatchResult) bool {
			return matchKey(r.Title) == title && matchKey(r.Company) == company
		})
		if !ok {
			job.SetScore(nil)
			job.Reasoning = nil
			job.Confidence = nil
			return job
		}

		score := match.MatchScore
		if score == nil {
			score = match.MatchPercentage
		}
		job.SetScore(score)
		reasoning := match.Reasoning
		job.Reasoning = &reasoning
		job.Confidence = nil
		if match.Confidence != nil {
			c := *match.Confidence
			job.Confidence = &c
		}
		return job
	})
}

func matchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
