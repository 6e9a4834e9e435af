package agent

import (
	"regexp"
	"strings"
)

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```(?:json)?")
	fenceCloseRe = regexp.MustCompile("```$")
	numberingRe  = regexp.MustCompile(`^\d+[.)]\s*`)
)

// stripFences removes a surrounding markdown code fence (```json ... ```).
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = fenceCloseRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// jsonObject returns text from the first '{' onward, fences removed.
func jsonObject(text string) string {
	s := stripFences(text)
	if i := strings.IndexByte(s, '{'); i > 0 {
		s = s[i:]
	}
	return s
}

// jsonArray returns text from the first '[' onward, fences removed.
func jsonArray(text string) string {
	s := stripFences(text)
	if i := strings.IndexByte(s, '['); i > 0 {
		s = s[i:]
	}
	return s
}

// parseQueryLines turns a model response into search queries: one per
// non-blank line, bullets and "1." numbering removed.
func parseQueryLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		q := strings.Trim(line, "-•* \t\r\"")
		q = numberingRe.ReplaceAllString(q, "")
		q = strings.TrimSpace(q)
		if q == "" || q == "```" {
			continue
		}
		out = append(out, q)
	}
	return out
}
