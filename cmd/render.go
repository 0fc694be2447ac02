package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/ecodeclub/ekit/slice"

	"github.com/khrees2412/jobdash/internal/app"
	"github.com/khrees2412/jobdash/internal/dashboard"
	"github.com/khrees2412/jobdash/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	newBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

var statusColors = map[models.Status]lipgloss.Color{
	models.StatusApplied:   lipgloss.Color("12"),
	models.StatusInterview: lipgloss.Color("214"),
	models.StatusRejected:  lipgloss.Color("9"),
	models.StatusOffer:     lipgloss.Color("10"),
}

func statusBadge(s models.Status) string {
	color, ok := statusColors[s]
	if !ok {
		color = lipgloss.Color("7")
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(string(s))
}

// scoreColor bands an ATS score: green from 80, blue from 60, orange from 30
func scoreColor(score float64) lipgloss.Color {
	switch {
	case score >= 80:
		return lipgloss.Color("10")
	case score >= 60:
		return lipgloss.Color("12")
	case score >= 30:
		return lipgloss.Color("214")
	default:
		return lipgloss.Color("9")
	}
}

func formatScore(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", *score)
}

func printJobs(w io.Writer, jobs []models.JobListing, selected int) {
	now := time.Now()
	for i, job := range jobs {
		marker := " "
		if i == selected {
			marker = ">"
		}
		title := job.Title
		if models.PostedWithin24h(job.CreatedAt, now) {
			title += " " + newBadge.Render("new")
		}
		fmt.Fprintf(w, "%s %d. %s\n", marker, i+1, title)
		fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Company:"), job.Company)
		if job.Location != "" {
			fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Location:"), job.Location)
		}
		if posted := models.RelativeTime(job.CreatedAt, now); posted != "" {
			fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Posted:"), posted)
		}
		if job.Score() != nil {
			fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Match:"), formatScore(job.Score()))
		}
	}
}

func printJob(w io.Writer, job models.JobListing) {
	fmt.Fprintln(w, titleStyle.Render(job.Title))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Company:"), job.Company)
	if job.Location != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Location:"), job.Location)
	}
	if posted := models.RelativeTime(job.CreatedAt, time.Now()); posted != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Posted:"), posted)
	}
	if job.ApplyLink != "" {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Apply:"), job.ApplyLink)
	}
	if job.Score() != nil {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Match Score:"), formatScore(job.Score()))
		if job.Reasoning != nil && *job.Reasoning != "" {
			fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Reasoning:"), *job.Reasoning)
		}
		if job.Confidence != nil {
			fmt.Fprintf(w, "%s %.0f%%\n", labelStyle.Render("Confidence:"), *job.Confidence*100)
		}
	}
	if job.Description != "" {
		fmt.Fprintln(w, labelStyle.Render("\nDescription:"))
		fmt.Fprintln(w, valueStyle.Render(job.Description))
	}
}

func printList(w io.Writer, label string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", labelStyle.Render(label))
	for _, item := range items {
		fmt.Fprintf(w, "  • %s\n", item)
	}
}

func printAnalysis(w io.Writer, res models.AnalysisResult) {
	fmt.Fprintln(w, titleStyle.Render("Resume Analysis"))
	score := lipgloss.NewStyle().Foreground(scoreColor(res.Score)).Bold(true).Render(fmt.Sprintf("%.0f/100", res.Score))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("ATS Score:"), score)
	if res.Confidence != nil {
		fmt.Fprintf(w, "%s %.0f%%\n", labelStyle.Render("Confidence:"), *res.Confidence*100)
	}
	if len(res.MissingKeywords) > 0 {
		fmt.Fprintf(w, "\n%s %s\n", labelStyle.Render("Missing Keywords:"), strings.Join(res.MissingKeywords, ", "))
	}
	printList(w, "Strengths", res.Strengths)
	printList(w, "Improvements", res.Improvements)
}

func printMatches(w io.Writer, jobs []models.JobListing) {
	fmt.Fprintln(w, titleStyle.Render("Match Results"))
	scored := slice.FilterMap(jobs, func(idx int, j models.JobListing) (string, bool) {
		if j.Score() == nil {
			return "", false
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%d. %s at %s: %s", idx+1, j.Title, j.Company, formatScore(j.Score()))
		if j.Reasoning != nil && *j.Reasoning != "" {
			fmt.Fprintf(&b, "\n     %s %s", labelStyle.Render("Reasoning:"), *j.Reasoning)
		}
		if j.Confidence != nil {
			fmt.Fprintf(&b, "\n     %s %.0f%%", labelStyle.Render("Confidence:"), *j.Confidence*100)
		}
		return b.String(), true
	})
	if len(scored) == 0 {
		fmt.Fprintln(w, "No scores were returned for the listed jobs.")
		return
	}
	for _, line := range scored {
		fmt.Fprintln(w, line)
	}
}

func printOptimization(w io.Writer, res models.OptimizationResult) {
	fmt.Fprintln(w, titleStyle.Render("Optimized Resume"))
	fmt.Fprintf(w, "%s %.0f -> %.0f\n\n", labelStyle.Render("ATS Score:"), res.OriginalScore, res.NewScore)
	fmt.Fprintln(w, res.OptimizedResume)
}

func printTracked(w io.Writer, jobs []models.TrackedJob) {
	if len(jobs) == 0 {
		fmt.Fprintln(w, "No tracked jobs yet. Track one with 'jobdash track add <n>'.")
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Job Tracker (%d tracked)", len(jobs))))
	for _, j := range jobs {
		fmt.Fprintf(w, "  [%s] %s at %s  %s\n", j.ID, j.Title, j.Company, statusBadge(j.Status))
		if j.Location != "" {
			fmt.Fprintf(w, "      %s %s\n", labelStyle.Render("Location:"), j.Location)
		}
		if j.AppliedDate != "" {
			fmt.Fprintf(w, "      %s %s\n", labelStyle.Render("Applied:"), j.AppliedDate)
		}
	}
}

func printStats(w io.Writer, stats dashboard.TrackerStats) {
	fmt.Fprintln(w, titleStyle.Render("Application Statistics"))
	fmt.Fprintf(w, "  Total Tracked: %d\n", stats.Total)
	for _, s := range models.Statuses {
		fmt.Fprintf(w, "  %s: %d\n", statusBadge(s), stats.ByStatus[s])
	}
	if stats.Total > 0 {
		fmt.Fprintf(w, "\n%s %.1f%%\n", labelStyle.Render("Response Rate:"), stats.ResponseRate)
	}
}

// jobIndex parses a 1-based job number into an index into a list of n jobs
func jobIndex(arg string, n int) (int, error) {
	num, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || num < 1 || num > n {
		return 0, fmt.Errorf("%w: job number must be between 1 and %d", app.ErrInvalidArgument, n)
	}
	return num - 1, nil
}

// readResume reads resume text from path, or from in when path is "-"
func readResume(path string, in io.Reader) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: --resume is required", app.ErrInvalidArgument)
	}
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	return string(data), nil
}
