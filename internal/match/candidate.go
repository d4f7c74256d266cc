package match

import (
	"sort"
)

// Candidate is a known name scored against a name that was not found.
type Candidate struct {
	Name  string
	Score float64 // similarity of the normalized names, 0 to 1

	Normalized string
}

// CandidateList is a list of candidates with ranking functionality.
type CandidateList []Candidate

// RankCandidates scores every known name against target.
// Returns candidates sorted by score (descending).
func RankCandidates(target string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	targetNorm, targetStem := Normalize(target), Stem(target)

	for _, name := range known {
		norm := Normalize(name)

		score := max(Similarity(norm, targetNorm), Similarity(Stem(name), targetStem))

		candidates = append(candidates, Candidate{
			Name:       name,
			Score:      score,
			Normalized: norm,
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to n known names close enough to target to be offered
// as "did you mean" hints.
func Suggest(target string, known []string, n int) []string {
	ranked := RankCandidates(target, known).AboveThreshold(DefaultSuggestScore).Top(n)

	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Name
	}

	return names
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
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the best candidate, or nil if no candidates.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold returns candidates with score above the threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// DefaultSuggestScore is the minimum similarity for a name to be suggested.
const DefaultSuggestScore = 0.6
