package match

import (
	"strings"
	"unicode"
)

// normalize case-folds and strips punctuation and common diacritics so
// alias comparison survives spelling variants like "Muenchen"/"München".
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch r {
		case 'ä':
			b.WriteString("a")
		case 'ö':
			b.WriteString("o")
		case 'ü':
			b.WriteString("u")
		case 'ß':
			b.WriteString("ss")
		case 'é', 'è', 'ê':
			b.WriteString("e")
		case 'á', 'à', 'â':
			b.WriteString("a")
		default:
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// editSimilarity is 1 - normalized edit distance over the longer string.
func editSimilarity(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// tokenOverlap is the Jaccard similarity of the whitespace token sets.
func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(a)
	tb := strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	sa := make(map[string]bool, len(ta))
	for _, t := range ta {
		sa[t] = true
	}
	sb := make(map[string]bool, len(tb))
	for _, t := range tb {
		sb[t] = true
	}
	inter := 0
	for t := range sb {
		if sa[t] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

// Similarity is the fuzzy score between two already-normalized strings: the
// better of edit similarity and token overlap.
func Similarity(a, b string) float64 {
	e := editSimilarity(a, b)
	t := tokenOverlap(a, b)
	if t > e {
		return t
	}
	return e
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
