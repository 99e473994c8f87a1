package evidence

import (
	"fmt"
	"marketmcp/marketmcp/utils/types"
	"strings"
	"unicode"
	"unicode/utf8"
)

// contextChars is how much surrounding text is kept on each side of a match.
const contextChars = 120

// Locate returns exactly one excerpt per claim, in order.
//
// A claim found case-insensitively yields a window of contextChars around the
// leftmost match with position "chars <start>-<end>". Otherwise the excerpt is
// the start of text and position is defaultPosition. Either way the excerpt is
// then cut to maxChars, which may drop the matched claim itself when the
// claim is long. Offsets and lengths count runes.
func Locate(text string, claims []string, maxChars int, defaultPosition string) []types.EvidenceExcerpt {
	runes := []rune(text)
	folded := fold(text)

	excerpts := make([]types.EvidenceExcerpt, 0, len(claims))
	for _, claim := range claims {
		claimRunes := []rune(claim)

		var snippet []rune
		position := defaultPosition

		if idx := index(folded, fold(claim)); idx >= 0 {
			start := max(0, idx-contextChars)
			end := min(len(runes), idx+len(claimRunes)+contextChars)
			snippet = runes[start:end]
			position = fmt.Sprintf("chars %d-%d", start, end)
		} else {
			snippet = runes[:clamp(maxChars, len(runes))]
		}

		if len(snippet) > maxChars {
			snippet = snippet[:clamp(maxChars, len(snippet))]
		}

		excerpts = append(excerpts, types.EvidenceExcerpt{
			Claim:    claim,
			Excerpt:  string(snippet),
			Position: position,
		})
	}
	return excerpts
}

// fold lowercases rune by rune, so the result has as many runes as s and
// rune offsets line up with the input.
func fold(s string) string {
	return strings.Map(unicode.ToLower, s)
}

// index is the rune offset of the leftmost match of needle in haystack; an
// empty needle never matches.
func index(haystack, needle string) int {
	if needle == "" {
		return -1
	}
	i := strings.Index(haystack, needle)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(haystack[:i])
}

func clamp(n, upper int) int {
	return max(0, min(n, upper))
}
