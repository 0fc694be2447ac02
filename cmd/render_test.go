package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khrees2412/jobdash/internal/app"
	"github.com/khrees2412/jobdash/pkg/models"
)

func TestJobIndex(t *testing.T) {
	tests := []struct {
		arg     string
		n       int
		want    int
		wantErr bool
	}{
		{"1", 3, 0, false},
		{" 3 ", 3, 2, false},
		{"0", 3, 0, true},
		{"4", 3, 0, true},
		{"abc", 3, 0, true},
		{"1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := jobIndex(tt.arg, tt.n)
			if tt.wantErr {
				assert.ErrorIs(t, err, app.ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatScore(t *testing.T) {
	v := 82.4
	assert.Equal(t, "82%", formatScore(&v))
	assert.Equal(t, "n/a", formatScore(nil))
}

func TestReadResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Go developer"), 0644))

	text, err := readResume(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)

	text, err = readResume("-", strings.NewReader("from stdin"))
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)

	_, err = readResume("", nil)
	assert.ErrorIs(t, err, app.ErrInvalidArgument)
}

func TestPrintMatchesOnlyScored(t *testing.T) {
	v, conf, why := 80.0, 0.75, "Strong Go background"
	var buf bytes.Buffer
	printMatches(&buf, []models.JobListing{
		{Title: "Eng", Company: "Acme", MatchScore: &v, MatchPercentage: &v, Reasoning: &why, Confidence: &conf},
		{Title: "PM", Company: "Acme"},
	})

	out := buf.String()
	assert.Contains(t, out, "1. Eng at Acme: 80%")
	assert.Contains(t, out, "Strong Go background")
	assert.Contains(t, out, "75%")
	assert.NotContains(t, out, "PM at Acme")
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score float64
		want  lipgloss.Color
	}{
		{95, lipgloss.Color("10")},
		{80, lipgloss.Color("10")},
		{79.9, lipgloss.Color("12")},
		{60, lipgloss.Color("12")},
		{45, lipgloss.Color("214")},
		{30, lipgloss.Color("214")},
		{29, lipgloss.Color("9")},
		{0, lipgloss.Color("9")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreColor(tt.score), "score %v", tt.score)
	}
}

func TestFilterByStatus(t *testing.T) {
	jobs := []models.TrackedJob{
		{ID: "1", Status: models.StatusApplied},
		{ID: "2", Status: models.StatusOffer},
	}
	got := filterByStatus(jobs, models.StatusOffer)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
	assert.Empty(t, filterByStatus(jobs, models.StatusRejected))
}
