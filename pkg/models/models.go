package models

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Experience levels accepted by the job search endpoint
const (
	LevelAny    = ""
	LevelEntry  = "entry"
	LevelMid    = "mid"
	LevelSenior = "senior"
)

var (
	ErrEmptyRole    = errors.New("role is required")
	ErrInvalidLevel = errors.New("experience level must be one of: entry, mid, senior")
)

// SearchCriteria is what the user submits from the search form
type SearchCriteria struct {
	Role            string `json:"role"`
	Location        string `json:"location"`
	ExperienceLevel string `json:"experienceLevel"`
	Last24          bool   `json:"last24"`
}

// Normalized returns a copy with role and location trimmed and the level lowercased
func (c SearchCriteria) Normalized() SearchCriteria {
	return SearchCriteria{
		Role:            strings.TrimSpace(c.Role),
		Location:        strings.TrimSpace(c.Location),
		ExperienceLevel: strings.ToLower(strings.TrimSpace(c.ExperienceLevel)),
		Last24:          c.Last24,
	}
}

// Validate checks the normalized criteria
func (c SearchCriteria) Validate() error {
	n := c.Normalized()
	if n.Role == "" {
		return ErrEmptyRole
	}
	switch n.ExperienceLevel {
	case LevelAny, LevelEntry, LevelMid, LevelSenior:
		return nil
	default:
		return ErrInvalidLevel
	}
}

// JobListing is a job returned by the search endpoint. Score fields are
// attached after a bulk match and are nil until then.
type JobListing struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	ApplyLink       string   `json:"apply_link"`
	CreatedAt       string   `json:"created,omitempty"`
	MatchScore      *float64 `json:"match_score"`
	MatchPercentage *float64 `json:"match_percentage"`
	Reasoning       *string  `json:"reasoning"`
	Confidence      *float64 `json:"confidence"`
}

// SetScore writes both alias fields so they never disagree
func (j *JobListing) SetScore(score *float64) {
	if score == nil {
		j.MatchScore = nil
		j.MatchPercentage = nil
		return
	}
	a, b := *score, *score
	j.MatchScore = &a
	j.MatchPercentage = &b
}

// Score returns match_score, falling back to match_percentage
func (j JobListing) Score() *float64 {
	if j.MatchScore != nil {
		return j.MatchScore
	}
	return j.MatchPercentage
}

// AnalysisResult is the ATS analysis of a resume against one job description
type AnalysisResult struct {
	Score           float64  `json:"ats_score"`
	MissingKeywords []string `json:"missing_keywords"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Confidence      *float64 `json:"confidence,omitempty"`
}

// MatchResult is one scored job from a bulk match
type MatchResult struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	MatchScore      *float64 `json:"match_score"`
	MatchPercentage *float64 `json:"match_percentage"`
	Reasoning       string   `json:"reasoning"`
	Confidence      *float64 `json:"confidence,omitempty"`
}

// OptimizationResult pairs the submitted resume with its optimized rewrite
type OptimizationResult struct {
	OriginalResume  string  `json:"original_resume"`
	OptimizedResume string  `json:"optimized_resume"`
	OriginalScore   float64 `json:"original_score"`
	NewScore        float64 `json:"new_score"`
}

// MatchJob is the reduced job shape sent to the match endpoint
type MatchJob struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
}

// Status of a tracked application
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusRejected  Status = "Rejected"
	StatusOffer     Status = "Offer"
)

// Statuses lists every status in display order
var Statuses = []Status{StatusApplied, StatusInterview, StatusRejected, StatusOffer}

// ParseStatus accepts any casing, e.g. "interview" or "OFFER"
func ParseStatus(s string) (Status, error) {
	st := Status(cases.Title(language.English).String(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q: must be one of %v", s, Statuses)
}

// TrackedJob is an application saved on the backend tracker
type TrackedJob struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	ApplyLink   string `json:"apply_link"`
	Status      Status `json:"status"`
	AppliedDate string `json:"applied_date,omitempty"`
}
