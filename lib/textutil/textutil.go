package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// ClosestName returns the candidate whose normalized form is within
// maxDistance edits of name, or -1 when none qualifies. Exact normalized
// matches win immediately. A best distance shared by two candidates is
// ambiguous and also yields -1, the caller cannot tell which one was
// meant.
func ClosestName(name string, candidates []string, maxDistance int) int {
	normalized := NormalizeName(name)

	best := -1
	bestDistance := maxDistance + 1
	tied := false
	for i, c := range candidates {
		cn := NormalizeName(c)
		if cn == normalized {
			return i
		}
		d := matchr.Levenshtein(normalized, cn)
		if d == bestDistance {
			tied = true
		}
		if d < bestDistance {
			best = i
			bestDistance = d
			tied = false
		}
	}
	if tied {
		return -1
	}
	return best
}
