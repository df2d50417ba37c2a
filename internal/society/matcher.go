package society

import (
	"sort"
	"strings"
	"unicode"

	"github.com/mauv0809/fairway-oom/internal/oom"
)

const (
	// autoMatchConfidence is the similarity above which a name is taken as the member.
	autoMatchConfidence = 0.8
	minSuggestConfidence = 0.3
	maxSuggestions       = 3
)

// Suggestion is a roster member that looks like a name that did not match exactly.
type Suggestion struct {
	Member     oom.Member
	Confidence float64
}

// MatchMember resolves a name or id from an outside source to a roster member. An exact id or
// normalized name wins; otherwise the closest name is accepted when it is similar enough. When no
// member is accepted the closest candidates are returned instead.
func MatchMember(roster oom.Roster, query string) (*oom.Member, []Suggestion) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if m, ok := roster.Lookup(query); ok {
		return &m, nil
	}

	normalized := normalizeName(query)
	var suggestions []Suggestion
	for _, m := range roster {
		name := normalizeName(m.Name)
		if name == normalized {
			m := m
			return &m, nil
		}
		score := (stringSimilarity(normalized, name) + tokenSimilarity(normalized, name)) / 2
		if score > minSuggestConfidence {
			suggestions = append(suggestions, Suggestion{Member: m, Confidence: score})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > 0 && suggestions[0].Confidence > autoMatchConfidence {
		// Two equally close members are ambiguous.
		if len(suggestions) == 1 || suggestions[1].Confidence < suggestions[0].Confidence {
			m := suggestions[0].Member
			return &m, nil
		}
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return nil, suggestions
}

// normalizeName lowercases a name and keeps only letters and single spaces.
func normalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func stringSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	maxLen := max(len(ra), len(rb))
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

// tokenSimilarity is the share of words of the longer name that have a close word in the other.
func tokenSimilarity(a, b string) float64 {
	ta, tb := strings.Fields(a), strings.Fields(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	matched := 0
	for _, x := range ta {
		for _, y := range tb {
			if stringSimilarity(x, y) > autoMatchConfidence {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(max(len(ta), len(tb)))
}

func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
