package nid

import (
	"log/slog"
	"regexp"

	"github.com/bangladeshelectioncommission7-sys/prportalnidwingcms/constants"
)

// ID-number rules, tried in strict order over the flat text.
var idRules = []*regexp.Regexp{
	// "ID NO" label + digits with optional space/hyphen separators.
	regexp.MustCompile(`ID\s*NO[:.]?\s*(\d[\d\s-]{5,18}\d)`),

	// "NID No" label, same shape.
	regexp.MustCompile(`NID\s*No[:.]?\s*(\d[\d\s-]{5,18}\d)`),

	// Exact 3-3-4 space-grouped national format.
	regexp.MustCompile(`\b(\d{3}\s+\d{3}\s+\d{4})\b`),

	// Bare run of one of the three valid national lengths.
	regexp.MustCompile(`\b(\d{10}|\d{13}|\d{17})\b`),

	// Machine-readable-zone style.
	regexp.MustCompile(`[<I]BGD(\d{9,})[<\d]`),

	// Generic label + separated digit run.
	regexp.MustCompile(`(?:ID|NID|Number|No)[:.]\s*(\d[\d\s-]+\d)`),

	// 3-3-4 block with optional separators.
	regexp.MustCompile(`\b(\d{3}[\s-]?\d{3}[\s-]?\d{4})\b`),

	// Last resort: any 10+ digit run.
	regexp.MustCompile(`\b(\d{10,})\b`),
}

var idSeparatorRe = regexp.MustCompile(`[\s-]`)

// extractID evaluates every rule and applies the tie-break: the first
// candidate whose normalized digit count is a canonical NID length (10, 13
// or 17) wins; with no canonical candidate the first provisional match in
// rule order is kept, tolerating OCR noise that mangles a digit or two.
func extractID(flat string) string {
	provisional := ""
	for i, re := range idRules {
		m := re.FindStringSubmatch(flat)
		if m == nil {
			continue
		}
		clean := idSeparatorRe.ReplaceAllString(m[1], "")
		if constants.IsCanonicalIDLength(len(clean)) {
			slog.Debug("found valid id number", "id", clean, "length", len(clean), "rule", i)
			return clean
		}
		if provisional == "" {
			slog.Debug("found id with unusual length", "id", clean, "length", len(clean), "rule", i)
			provisional = clean
		}
	}
	return provisional
}
