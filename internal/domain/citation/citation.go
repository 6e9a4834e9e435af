// Package citation renumbers bracket citation markers in synthesized answers.
//
// Markers like [3] or [3, 5, 8] are remapped to a dense 1..K range where
// new ids follow the ascending order of the old ids, not their order of
// appearance in the text.
package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// groupRe matches a bracket group holding only digits, commas and whitespace (at least one digit).
var groupRe = regexp.MustCompile(`\[[\d,\s]*\d[\d,\s]*\]`)

var sepRe = regexp.MustCompile(`[,\s]+`)

// Normalize rewrites citation markers in answer and builds the matching compact citation list.
// Referenced ids absent from citations keep their rewritten marker in the text
// but get no entry in the returned list.
func Normalize(answer string, citations []domain.Citation) (string, []domain.Citation) {
	used := IDs(answer)

	mapping := make(map[int]int, len(used))
	for i, old := range used {
		mapping[old] = i + 1
	}

	rewritten := groupRe.ReplaceAllStringFunc(answer, func(group string) string {
		ids := parseGroup(group)
		if len(ids) == 0 {
			return group
		}
		parts := make([]string, 0, len(ids))
		for _, old := range ids {
			if n, ok := mapping[old]; ok {
				parts = append(parts, strconv.Itoa(n))
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	})

	out := make([]domain.Citation, 0, len(used))
	for _, old := range used {
		for _, c := range citations {
			if c.ID == old {
				out = append(out, domain.Citation{ID: mapping[old], Title: c.Title, URL: c.URL})
				break
			}
		}
	}

	return rewritten, out
}

// IDs returns the distinct citation ids referenced in text, sorted ascending.
func IDs(text string) []int {
	seen := make(map[int]struct{})
	for _, group := range groupRe.FindAllString(text, -1) {
		for _, id := range parseGroup(group) {
			seen[id] = struct{}{}
		}
	}

	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// parseGroup extracts ids from a "[...]" group in order. Unparsable parts are skipped.
func parseGroup(group string) []int {
	inner := group[1 : len(group)-1]
	var ids []int
	for _, part := range sepRe.Split(inner, -1) {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids = append(ids, n)
	}
	return ids
}
