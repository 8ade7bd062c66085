package nid

import (
	"log/slog"
	"regexp"
	"strings"
)

// Name rules, tried in order over the flat text. RE2 has no lookahead, so
// the terminator boundaries of the source patterns are written as consumed
// non-capturing groups after a lazy capture; only group 1 is used.
var nameRules = []*regexp.Regexp{
	// "Name" label followed by an uppercase run, stopped at a known boundary
	// token, a digit, a newline or end of text.
	regexp.MustCompile(`Name\s*[:.]?\s*([A-Z][A-Z\s.]+?)(?:\s+(?:fet|faot|ent|Date|Birth|DOB|NID|ID|No)\b|\s*\d|\n|$)`),

	// Same label, looser case, length-bounded capture.
	regexp.MustCompile(`Name\s*[:.]?\s+([A-Za-z][A-Za-z\s.]{2,30}?)(?:\s+(?:fet|faot|ent|Date|Birth|DOB|NID|ID|No)\b|\s*\d|\n|$)`),

	// "Md."/"MD" honorific followed by two or three capitalized words; works
	// without any label.
	regexp.MustCompile(`\bM[dD]\.?\s+([A-Za-z]+\s+[A-Za-z]+(?:\s+[A-Za-z]+)?)\b`),

	// "Name" label directly followed by two or three ALL-CAPS words.
	regexp.MustCompile(`Name\s*[:.]?\s*([A-Z]+\s+[A-Z]+(?:\s+[A-Z]+)?)\b`),
}

const honorificRule = 2

// Phrases that must never be returned as a holder name: document
// boilerplate and recurring OCR garbage.
var nameBlacklist = []string{
	"NATIONAL ID CARD", "ID CARD", "BANGLADESH", "GOVERNMENT",
	"PEOPLES", "REPUBLIC", "CARD", "NATIONAL", "DATE OF BIRTH",
	"GOVERMENT", "soeezledt", "offthe",
}

var digitRe = regexp.MustCompile(`\d`)

// nameCandidates collects every rule's first match, in rule order. The
// honorific rule also contributes the two-word prefix of a three-word
// capture, so a blacklisted trailing word does not sink the candidate.
func nameCandidates(flat string) []string {
	var out []string
	for i, re := range nameRules {
		m := re.FindStringSubmatch(flat)
		if m == nil {
			continue
		}
		cand := strings.TrimSpace(m[1])
		out = append(out, cand)
		if i == honorificRule {
			if words := strings.Fields(cand); len(words) == 3 {
				out = append(out, strings.Join(words[:2], " "))
			}
		}
	}
	return out
}

// extractName evaluates the full candidate list and applies the tie-break:
// the first non-blacklisted multi-word candidate wins; failing that, the
// first plausible single-word candidate is kept.
func extractName(flat string) string {
	var single string
	for _, cand := range nameCandidates(flat) {
		if isBlacklistedName(cand) {
			slog.Debug("skipping blacklisted name candidate", "candidate", cand)
			continue
		}
		if strings.Contains(cand, " ") && len(cand) >= 4 && len(cand) <= 40 {
			slog.Debug("found valid name", "name", cand)
			return cand
		}
		if single == "" && len(cand) > 5 && !digitRe.MatchString(cand) {
			slog.Debug("found potential single-word name", "name", cand)
			single = cand
		}
	}
	return single
}

func isBlacklistedName(cand string) bool {
	lower := strings.ToLower(cand)
	for _, b := range nameBlacklist {
		if strings.Contains(lower, strings.ToLower(b)) {
			return true
		}
	}
	return false
}
