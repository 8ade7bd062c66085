// Package similarity scores caller-supplied comparison values against
// extracted NID fields using a character-level sequence matching ratio.
package similarity

import (
	"log/slog"
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Report statuses.
const (
	StatusNoComparisonData = "no_comparison_data_provided"
	StatusPartial          = "partial_comparison"
	StatusError            = "error_calculating_similarity"
)

// Per-field sentinels emitted when an expected value was supplied but the
// matching field could not be extracted from the image.
const (
	NoExtractedName = "no_extracted_name_available"
	NoExtractedDOB  = "no_extracted_dob_available"
)

// Report carries the outcome of a comparison. Each similarity slot is a
// rounded ratio in [0,1], one of the sentinel strings, or absent when the
// expected value was not supplied at all.
type Report struct {
	Status         string `json:"status"`
	NameSimilarity any    `json:"name_similarity,omitempty"`
	DOBSimilarity  any    `json:"dob_similarity,omitempty"`
}

// Score compares the provided expected values against the extracted ones.
// Inputs are trimmed; an empty string is treated as absent. Score never
// panics: any internal fault collapses the whole report to StatusError.
func Score(providedName, providedDOB, extractedName, extractedDOB string) (rep *Report) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("similarity scoring failed", "panic", r)
			rep = &Report{Status: StatusError}
		}
	}()

	providedName = strings.TrimSpace(providedName)
	providedDOB = strings.TrimSpace(providedDOB)
	extractedName = strings.TrimSpace(extractedName)
	extractedDOB = strings.TrimSpace(extractedDOB)

	if providedName == "" && providedDOB == "" {
		return &Report{Status: StatusNoComparisonData}
	}

	rep = &Report{Status: StatusPartial}
	if providedName != "" {
		if extractedName != "" {
			rep.NameSimilarity = Ratio(providedName, extractedName)
		} else {
			rep.NameSimilarity = NoExtractedName
		}
	}
	if providedDOB != "" {
		if extractedDOB != "" {
			rep.DOBSimilarity = Ratio(providedDOB, extractedDOB)
		} else {
			rep.DOBSimilarity = NoExtractedDOB
		}
	}
	return rep
}

// Ratio returns the case-insensitive character-level sequence matching
// ratio between a and b, rounded to two decimal places. 1.0 means the
// upper-cased strings are identical.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(
		strings.Split(strings.ToUpper(a), ""),
		strings.Split(strings.ToUpper(b), ""),
	)
	return math.Round(m.Ratio()*100) / 100
}
