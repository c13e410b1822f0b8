package applicants

import (
	"cmp"
	"slices"

	"edbo-scraper/internal/model"
	"edbo-scraper/lib/textutil"

	"github.com/antzucaro/matchr"
)

// SimilarPair is two distinct identities whose names look alike. It is a
// diagnostic for reviewing possible false splits, nothing is merged.
type SimilarPair struct {
	Left       model.Applicant
	Right      model.Applicant
	Similarity float64
}

// SimilarNames compares the normalized names of every pair of applicants that
// share the first letter of their normalized name and returns the pairs with a
// Jaro-Winkler similarity of at least threshold, most similar first.
func SimilarNames(roster []model.Applicant, threshold float64) []SimilarPair {
	buckets := make(map[rune][]int)
	normalized := make([]string, len(roster))
	for i, a := range roster {
		normalized[i] = textutil.NormalizeName(a.Name)
		var first rune
		for _, r := range normalized[i] {
			first = r
			break
		}
		buckets[first] = append(buckets[first], i)
	}

	var result []SimilarPair
	for _, bucket := range buckets {
		for x := 0; x < len(bucket); x++ {
			for y := x + 1; y < len(bucket); y++ {
				left, right := bucket[x], bucket[y]
				similarity := matchr.JaroWinkler(normalized[left], normalized[right], false)
				if similarity < threshold {
					continue
				}
				result = append(result, SimilarPair{
					Left:       roster[left],
					Right:      roster[right],
					Similarity: similarity,
				})
			}
		}
	}

	slices.SortFunc(result, func(a, b SimilarPair) int {
		if c := cmp.Compare(b.Similarity, a.Similarity); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Left.ID, b.Left.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.Right.ID, b.Right.ID)
	})
	return result
}
