package dashboard

import "errors"

var (
	// ErrBusy is returned when any action is already in flight
	ErrBusy          = errors.New("another action is in progress")
	ErrNoJobSelected = errors.New("select a job first")
	ErrNoResume      = errors.New("add your resume first")
	ErrNoJobs        = errors.New("search for jobs first")
	ErrNoAnalysis    = errors.New("analyze your resume for this job first")
	// ErrStale is returned when a response arrives after its call was superseded
	ErrStale    = errors.New("response superseded by a newer request")
	ErrNotFound = errors.New("job not found")
)
