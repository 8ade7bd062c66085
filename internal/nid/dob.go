package nid

import (
	"log/slog"
	"regexp"
	"strings"
)

// Date-of-birth rules, case-insensitive, tried in order; the first match
// anywhere in the flat text wins. The matched substring is returned
// verbatim (trimmed): no calendar validation is applied.
var dobRules = []*regexp.Regexp{
	// Labeled day month-abbreviation year, space or hyphen separated.
	regexp.MustCompile(`(?i)(?:Date of Birth|DOB|Birth)[:.]?\s*(\d{1,2}[\s-](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[\s-]\d{2,4})`),

	// Labeled numeric date with /, . or - separators.
	regexp.MustCompile(`(?i)(?:Date of Birth|DOB|Birth)[:.]?\s*(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4})`),

	// Unlabeled day + full month name + 4-digit year.
	regexp.MustCompile(`(?i)(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})`),

	// Unlabeled day + month abbreviation + 2-4 digit year.
	regexp.MustCompile(`(?i)(\d{1,2}[\s-](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[\s-]\d{2,4})`),
}

func extractDOB(flat string) string {
	for _, re := range dobRules {
		if m := re.FindStringSubmatch(flat); m != nil {
			dob := strings.TrimSpace(m[1])
			slog.Debug("found date of birth", "dob", dob)
			return dob
		}
	}
	return ""
}
