package dashboard

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/jobdash/internal/api"
	"github.com/khrees2412/jobdash/pkg/models"
)

type fakeTracker struct {
	list      []models.TrackedJob
	listErr   error
	updateErr error
	nextID    int

	// when gate is set, TrackedJobs signals started and waits on gate
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeTracker) TrackJob(_ context.Context, job models.JobListing) (models.TrackedJob, error) {
	f.nextID++
	return models.TrackedJob{
		ID:        strconv.Itoa(f.nextID),
		Title:     job.Title,
		Company:   job.Company,
		ApplyLink: job.ApplyLink,
		Status:    models.StatusApplied,
	}, nil
}

func (f *fakeTracker) TrackedJobs(context.Context) ([]models.TrackedJob, error) {
	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	return f.list, f.listErr
}

func (f *fakeTracker) UpdateStatus(_ context.Context, id string, status models.Status) (models.TrackedJob, error) {
	if f.updateErr != nil {
		return models.TrackedJob{}, f.updateErr
	}
	// the backend echoes a sparse record; only the status is taken from it
	return models.TrackedJob{ID: id, Status: status}, nil
}

func TestTrackerRefreshAndUpdate(t *testing.T) {
	ctx := context.Background()
	backend := &fakeTracker{list: []models.TrackedJob{
		{ID: "1", Title: "Eng", Company: "Acme", Status: models.StatusApplied},
		{ID: "2", Title: "PM", Company: "Globex", Status: models.StatusApplied},
	}}
	tr := NewTracker(backend, nil)

	jobs, err := tr.Refresh(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)
	assert.False(t, tr.Snapshot().Loading)

	updated, err := tr.UpdateStatus(ctx, "2", models.StatusOffer)
	require.NoError(t, err)
	assert.Equal(t, "PM", updated.Title)
	assert.Equal(t, models.StatusOffer, updated.Status)

	snap := tr.Snapshot()
	assert.Equal(t, models.StatusApplied, snap.Jobs[0].Status)
	assert.Equal(t, models.StatusOffer, snap.Jobs[1].Status)
	assert.Equal(t, "Globex", snap.Jobs[1].Company)
}

func TestTrackerTrackAppends(t *testing.T) {
	tr := NewTracker(&fakeTracker{}, nil)

	tracked, err := tr.Track(context.Background(), models.JobListing{Title: "Eng", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApplied, tracked.Status)
	assert.Len(t, tr.Snapshot().Jobs, 1)
}

func TestTrackerErrors(t *testing.T) {
	ctx := context.Background()
	backend := &fakeTracker{listErr: &api.Error{StatusCode: 401, Message: "Invalid or expired token"}}
	tr := NewTracker(backend, nil)

	_, err := tr.Refresh(ctx)
	require.Error(t, err)
	snap := tr.Snapshot()
	assert.Equal(t, "Invalid or expired token", snap.Error)
	assert.False(t, snap.Loading)

	backend.updateErr = &api.Error{StatusCode: 404, Message: "Job not found"}
	_, err = tr.UpdateStatus(ctx, "9", models.StatusRejected)
	require.Error(t, err)
	assert.Equal(t, "Job not found", tr.Snapshot().Error)
}

func TestSummarize(t *testing.T) {
	stats := Summarize([]models.TrackedJob{
		{Status: models.StatusApplied},
		{Status: models.StatusApplied},
		{Status: models.StatusInterview},
		{Status: models.StatusRejected},
	})
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[models.StatusApplied])
	assert.Equal(t, 1, stats.ByStatus[models.StatusInterview])
	assert.InDelta(t, 50.0, stats.ResponseRate, 0.001)

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.ResponseRate)
}

func TestTrackerReset(t *testing.T) {
	ctx := context.Background()
	backend := &fakeTracker{list: []models.TrackedJob{{ID: "1", Title: "Eng", Status: models.StatusApplied}}}
	tr := NewTracker(backend, nil)

	_, err := tr.Refresh(ctx)
	require.NoError(t, err)
	require.Len(t, tr.Snapshot().Jobs, 1)

	tr.Reset()
	snap := tr.Snapshot()
	assert.Empty(t, snap.Jobs)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Error)
}

func TestTrackerResetDropsInFlightRefresh(t *testing.T) {
	backend := &fakeTracker{
		list:    []models.TrackedJob{{ID: "1", Title: "Eng", Status: models.StatusApplied}},
		gate:    make(chan struct{}),
		started: make(chan struct{}),
	}
	tr := NewTracker(backend, nil)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Refresh(context.Background())
		done <- err
	}()
	<-backend.started
	tr.Reset()
	close(backend.gate)

	assert.ErrorIs(t, <-done, ErrStale)
	snap := tr.Snapshot()
	assert.Empty(t, snap.Jobs)
	assert.False(t, snap.Loading)
}
