package duplicates

import "math"

// Score holds the pairwise similarity metrics for two comparison
// records. Every metric is symmetric and lies in [0, 100] except
// CapacityDifference, which is unbounded above. BothCapacities reports
// whether both records carried a non-zero capacity; when false the
// difference is not a discriminating signal.
type Score struct {
	NameSimilarity      float64 `json:"name_similarity"`
	AddressSimilarity   float64 `json:"address_similarity"`
	AddressTokenOverlap float64 `json:"address_token_overlap"`
	CapacityDifference  float64 `json:"capacity_difference"`
	BothCapacities      bool    `json:"-"`
}

// ScorePair computes all similarity metrics between two normalized
// records. Pure, symmetric, and total: empty strings and zero
// capacities degrade to neutral values rather than errors.
func ScorePair(a, b ComparisonRecord) Score {
	s := Score{
		NameSimilarity:      stringSimilarity(a.Name, b.Name),
		AddressSimilarity:   stringSimilarity(a.Address, b.Address),
		AddressTokenOverlap: tokenOverlap(a.Tokens, b.Tokens),
	}

	s.BothCapacities = a.HasCapacity && b.HasCapacity
	if s.BothCapacities {
		s.CapacityDifference = capacityDifference(a.Capacity, b.Capacity)
	}

	return s
}

// stringSimilarity returns 100 × (1 − lev(a,b) / max(len(a), len(b), 1)),
// measured over runes. Two empty strings yield 100; callers must gate on
// both being non-empty before treating that as a positive signal.
func stringSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	longest := max(len(ra), len(rb), 1)
	distance := levenshtein(ra, rb)

	return 100 * (1 - float64(distance)/float64(longest))
}

// levenshtein computes the edit distance between two rune slices using
// a two-row dynamic programming table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

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

// tokenOverlap returns the Jaccard similarity of two token sets as a
// percentage. An empty union yields 0.
func tokenOverlap(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	return 100 * float64(intersection) / float64(union)
}

// capacityDifference returns the relative difference between two
// capacities as a percentage of the larger value.
func capacityDifference(a, b float64) float64 {
	larger := math.Max(math.Abs(a), math.Abs(b))
	if larger == 0 {
		return 0
	}
	return 100 * math.Abs(a-b) / larger
}
