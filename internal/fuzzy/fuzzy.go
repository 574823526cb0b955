// Package fuzzy scores how well a spoken phrase matches a device or attribute
// name. Scores are integers in [0, 100].
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Threshold is the lowest score accepted as a match.
const Threshold = 60

type Match struct {
	Index  int
	Choice string
	Score  int
}

// Normalize lower-cases s and replaces everything that is not a letter or a
// digit with a single space.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// Ratio is the normalized edit-distance similarity of two strings.
func Ratio(a, b string) int {
	return ratio([]rune(a), []rune(b))
}

func ratio(a, b []rune) int {
	longest := max(len(a), len(b))
	if longest == 0 || len(a) == 0 || len(b) == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(string(a), string(b))
	return int(math.Round(100 * float64(longest-dist) / float64(longest)))
}

// PartialRatio scores the shorter string against its best-aligned window in
// the longer one.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0
	for start := 0; start+len(short) <= len(long); start++ {
		score := ratio(short, long[start:start+len(short)])
		if score > best {
			best = score
		}
		if best == 100 {
			break
		}
	}
	return best
}

// PartialTokenSortRatio normalizes both inputs, sorts their words and then
// applies PartialRatio, so word order and punctuation do not matter.
func PartialTokenSortRatio(a, b string) int {
	return PartialRatio(sortTokens(Normalize(a)), sortTokens(Normalize(b)))
}

// ExtractOne returns the best scoring choice. Ties keep the earliest choice.
// ok is false when no choice reaches cutoff.
func ExtractOne(query string, choices []string, cutoff int) (Match, bool) {
	best := Match{Index: -1, Score: -1}
	for i, c := range choices {
		score := PartialTokenSortRatio(query, c)
		if score > best.Score {
			best = Match{Index: i, Choice: c, Score: score}
		}
	}
	if best.Index < 0 || best.Score < cutoff {
		return Match{}, false
	}
	return best, true
}

// Extract returns every choice scoring at least cutoff, best first. Equal
// scores keep their input order.
func Extract(query string, choices []string, cutoff int) []Match {
	var matches []Match
	for i, c := range choices {
		if score := PartialTokenSortRatio(query, c); score >= cutoff {
			matches = append(matches, Match{Index: i, Choice: c, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
