package match

import (
	"sort"
	"strings"
)

// Suggestion thresholds.
const (
	// DefaultMaxSuggestions is the number of names listed in a zero-match report.
	DefaultMaxSuggestions = 5
	// DefaultMinSimilarity is the lowest normalized similarity worth suggesting.
	DefaultMinSimilarity = 0.5
)

// Candidate is a name ranked against a requested member.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// Rank scores every option against target, best first.
func Rank(target string, options []string) CandidateList {
	normTarget := NormalizeIdent(target)

	candidates := make(CandidateList, 0, len(options))
	for _, opt := range options {
		candidates = append(candidates, Candidate{
			Name:  opt,
			Score: LevenshteinNormalized(normTarget, NormalizeIdent(opt)),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to limit options similar to target.
func Suggest(target string, options []string, limit int) []string {
	ranked := Rank(target, options).AboveThreshold(DefaultMinSimilarity).Top(limit)

	names := make([]string, 0, len(ranked))
	for _, c := range ranked {
		names = append(names, c.Name)
	}

	return names
}

// NormalizeIdent case-folds an identifier and strips separators so that
// "isDead", "is_dead" and "IsDead" compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if r == '_' || r == '-' || r == ' ' || r == '$' {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by name for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the top n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n < 0 || n >= len(c) {
		return c
	}

	return c[:n]
}

// AboveThreshold returns candidates with a score of at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}
