// Package normalize adapts backend responses whose shape is not fixed into
// the canonical models. Every function here is pure.
package normalize

import (
	"strconv"
	"strings"

	"github.com/khrees2412/jobdash/pkg/models"
	"github.com/tidwall/gjson"
)

// Score reads a match score from obj: match_score first, then
// match_percentage. A missing or null field counts as absent.
func Score(obj gjson.Result) *float64 {
	for _, key := range []string{"match_score", "match_percentage"} {
		if v := number(obj.Get(key)); v != nil {
			return v
		}
	}
	return nil
}

// AnalysisScore reads the ATS score, accepting ats_score or score
func AnalysisScore(obj gjson.Result) float64 {
	for _, key := range []string{"ats_score", "score"} {
		if v := number(obj.Get(key)); v != nil {
			return *v
		}
	}
	return 0
}

// Keywords flattens a keyword field that may be a comma-joined string or an
// array whose elements may themselves contain commas. Order is preserved and
// blank entries are dropped.
func Keywords(value gjson.Result) []string {
	out := []string{}
	switch {
	case value.IsArray():
		out = appendKeywords(out, value)
	case value.Type == gjson.String:
		out = appendSplit(out, value.Str)
	}
	return out
}

func appendKeywords(out []string, arr gjson.Result) []string {
	for _, el := range arr.Array() {
		if el.IsArray() {
			out = appendKeywords(out, el)
			continue
		}
		out = appendSplit(out, elementText(el))
	}
	return out
}

// Strings reads a plain list that may also arrive as a single string
func Strings(value gjson.Result) []string {
	out := []string{}
	switch {
	case value.IsArray():
		for _, el := range value.Array() {
			if s := strings.TrimSpace(elementText(el)); s != "" {
				out = append(out, s)
			}
		}
	case value.Type == gjson.String:
		if s := strings.TrimSpace(value.Str); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Job builds a listing from one search result object
func Job(obj gjson.Result) models.JobListing {
	job := models.JobListing{
		ID:          obj.Get("id").String(),
		Title:       obj.Get("title").String(),
		Company:     obj.Get("company").String(),
		Location:    obj.Get("location").String(),
		Description: obj.Get("description").String(),
		ApplyLink:   obj.Get("apply_link").String(),
		CreatedAt:   obj.Get("created").String(),
		Confidence:  number(obj.Get("confidence")),
	}
	job.SetScore(Score(obj))
	if r := obj.Get("reasoning"); r.Type == gjson.String {
		s := r.Str
		job.Reasoning = &s
	}
	return job
}

// Jobs builds listings from a search response; anything but an array yields none
func Jobs(arr gjson.Result) []models.JobListing {
	jobs := []models.JobListing{}
	if !arr.IsArray() {
		return jobs
	}
	arr.ForEach(func(_, obj gjson.Result) bool {
		jobs = append(jobs, Job(obj))
		return true
	})
	return jobs
}

// MatchResult builds one bulk match result, filling both score aliases
func MatchResult(obj gjson.Result) models.MatchResult {
	score := Score(obj)
	res := models.MatchResult{
		Title:      obj.Get("title").String(),
		Company:    obj.Get("company").String(),
		Reasoning:  obj.Get("reasoning").String(),
		Confidence: number(obj.Get("confidence")),
	}
	if score != nil {
		a, b := *score, *score
		res.MatchScore = &a
		res.MatchPercentage = &b
	}
	return res
}

// MatchResults builds the bulk match response; anything but an array yields none
func MatchResults(arr gjson.Result) []models.MatchResult {
	results := []models.MatchResult{}
	if !arr.IsArray() {
		return results
	}
	arr.ForEach(func(_, obj gjson.Result) bool {
		results = append(results, MatchResult(obj))
		return true
	})
	return results
}

// Analysis builds an ATS result
func Analysis(obj gjson.Result) models.AnalysisResult {
	return models.AnalysisResult{
		Score:           AnalysisScore(obj),
		MissingKeywords: Keywords(obj.Get("missing_keywords")),
		Strengths:       Strings(obj.Get("strengths")),
		Improvements:    Strings(obj.Get("improvements")),
		Confidence:      number(obj.Get("confidence")),
	}
}

// TrackedJob builds one tracker entry. A missing status defaults to Applied.
func TrackedJob(obj gjson.Result) models.TrackedJob {
	status := models.StatusApplied
	if raw := obj.Get("status").String(); raw != "" {
		if st, err := models.ParseStatus(raw); err == nil {
			status = st
		} else {
			status = models.Status(raw)
		}
	}
	return models.TrackedJob{
		ID:          obj.Get("id").String(),
		Title:       obj.Get("title").String(),
		Company:     obj.Get("company").String(),
		Location:    obj.Get("location").String(),
		ApplyLink:   obj.Get("apply_link").String(),
		Status:      status,
		AppliedDate: obj.Get("applied_date").String(),
	}
}

// TrackedJobs builds the tracker list
func TrackedJobs(arr gjson.Result) []models.TrackedJob {
	jobs := []models.TrackedJob{}
	if !arr.IsArray() {
		return jobs
	}
	arr.ForEach(func(_, obj gjson.Result) bool {
		jobs = append(jobs, TrackedJob(obj))
		return true
	})
	return jobs
}

func number(v gjson.Result) *float64 {
	switch v.Type {
	case gjson.Number:
		f := v.Num
		return &f
	case gjson.String:
		// numeric strings such as "82.5" are accepted, anything else is absent
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
			return &f
		}
	}
	return nil
}

// elementText renders a scalar element. Objects, arrays and null have no text.
func elementText(el gjson.Result) string {
	switch el.Type {
	case gjson.String:
		return el.Str
	case gjson.Number, gjson.True, gjson.False:
		return el.Raw
	}
	return ""
}

func appendSplit(out []string, s string) []string {
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
