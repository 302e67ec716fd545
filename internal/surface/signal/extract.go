package signal

import (
	"regexp"
	"strings"
)

var (
	reDirectReported = regexp.MustCompile(`(?i)(?:unrecognized|unknown|invalid|illegal)\s+(?:option|flag|switch)(?:\s+|[:=])\s*['"` + "`" + `]?([^\s'"` + "`" + `]+)`)
	reGetoptReported = regexp.MustCompile(`(?i)(?:invalid|illegal|unknown|unrecognized)\s+option\s+--\s*['"]?([A-Za-z0-9])['"]?`)

	reMissingDirect = regexp.MustCompile(`(?i)(?:option|flag|switch)\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?\s+requires\s+(?:an?\s+)?(?:argument|value)`)
	reMissingFor    = regexp.MustCompile(`(?i)missing\s+(?:argument|value)\s+for\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?`)
	reRequiredFor   = regexp.MustCompile(`(?i)requires\s+(?:an?\s+)?(?:argument|value)\s+for\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?`)
	reMissingGetopt = regexp.MustCompile(`(?i)option\s+requires\s+(?:an?\s+)?(?:argument|value)\s+--\s*['"]?([A-Za-z0-9])['"]?`)

	reNotAllowedDirect = regexp.MustCompile(`(?i)option\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?\s+does(?:n't| not)\s+(?:allow|take|accept)\s+(?:an?\s+)?(?:argument|value)`)
	reTakesNo          = regexp.MustCompile(`(?i)option\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?\s+takes?\s+no\s+(?:argument|value)`)
	reNotAllowedFor    = regexp.MustCompile(`(?i)(?:argument|value)\s+not\s+allowed\s+for\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?`)

	reInvalidFor = regexp.MustCompile(`(?i)invalid\s+(?:argument|value)\s+['"` + "`" + `]?[^'"` + "`" + `]+['"` + "`" + `]?\s+for\s+['"` + "`" + `]?([^\s'"` + "`" + `]+)['"` + "`" + `]?`)
)

// extractReportedOptions pulls the option token(s) a generic unrecognized/
// unknown/invalid/illegal diagnostic names, including the getopt
// `-- X` short-option form.
func extractReportedOptions(output string) []string {
	var out []string
	for _, m := range reDirectReported.FindAllStringSubmatch(output, -1) {
		if cleaned, ok := cleanReported(m[1]); ok {
			out = append(out, cleaned)
		}
	}
	for _, m := range reGetoptReported.FindAllStringSubmatch(output, -1) {
		if m[1] != "" {
			out = append(out, "-"+m[1])
		}
	}
	return out
}

func extractMissingArgumentOptions(output string) []string {
	var out []string
	for _, re := range []*regexp.Regexp{reMissingDirect, reMissingFor, reRequiredFor} {
		for _, m := range re.FindAllStringSubmatch(output, -1) {
			if cleaned, ok := cleanReported(m[1]); ok {
				out = append(out, cleaned)
			}
		}
	}
	for _, m := range reMissingGetopt.FindAllStringSubmatch(output, -1) {
		if m[1] != "" {
			out = append(out, "-"+m[1])
		}
	}
	return out
}

func extractArgumentNotAllowedOptions(output string) []string {
	var out []string
	for _, re := range []*regexp.Regexp{reNotAllowedDirect, reTakesNo, reNotAllowedFor} {
		for _, m := range re.FindAllStringSubmatch(output, -1) {
			if cleaned, ok := cleanReported(m[1]); ok {
				out = append(out, cleaned)
			}
		}
	}
	return out
}

func extractInvalidArgumentOptions(output string) []string {
	var out []string
	for _, m := range reInvalidFor.FindAllStringSubmatch(output, -1) {
		if cleaned, ok := cleanReported(m[1]); ok {
			out = append(out, cleaned)
		}
	}
	return out
}

func cleanReported(token string) (string, bool) {
	cleaned := cleanOptionToken(token)
	if cleaned == "" || cleaned == "-" || cleaned == "--" {
		return "", false
	}
	return cleaned, true
}

// cleanOptionToken strips surrounding punctuation an attribution regex's
// greedy token match can pick up (trailing comma, closing paren, etc).
func cleanOptionToken(token string) string {
	return strings.Trim(token, ",;:.)( ]")
}

// optionMatches reports whether a reported token refers to the option
// under test: exact match, a trailing "=VALUE" stripped, or a single
// getopt letter against a two-character "-X" tested option (spec §4.5).
func optionMatches(reported, tested string) bool {
	r := strings.ToLower(reported)
	t := strings.ToLower(tested)
	if r == t {
		return true
	}
	if idx := strings.IndexByte(r, '='); idx >= 0 && r[:idx] == t {
		return true
	}
	if len(r) == 1 && len(t) == 2 && t[0] == '-' {
		return rune(t[1]) == rune(r[0])
	}
	return false
}

func containsAny(output string, markers []string) (string, bool) {
	for _, m := range markers {
		if strings.Contains(output, m) {
			return m, true
		}
	}
	return "", false
}
