package catalog

import (
	"sort"
	"strings"

	"carbwise/internal/model"
)

// MaxSearchResults caps the number of records Search returns.
const MaxSearchResults = 10

const (
	scorePrefix   = 100
	scoreContains = 50
	scoreFuzzy    = 20
)

type scored struct {
	index int
	score int
}

// Search ranks records against the whitespace-separated tokens of query.
// Each token adds 100 when the description starts with it, 50 when the
// description contains it, or 20 on a fuzzy match. Records scoring zero are
// dropped; the rest are ordered by score, then by byte order of the
// original description.
func (c *Catalog) Search(query string) ([]model.FoodRecord, error) {
	s := c.active.Load()
	if s == nil {
		return nil, model.ErrCatalogNotLoaded
	}

	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return []model.FoodRecord{}, nil
	}

	var hits []scored
	for i, text := range s.lowered {
		score := 0
		for _, token := range tokens {
			score += tokenScore(token, text)
		}
		if score > 0 {
			hits = append(hits, scored{index: i, score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return s.records[hits[a].index].Description < s.records[hits[b].index].Description
	})

	if len(hits) > MaxSearchResults {
		hits = hits[:MaxSearchResults]
	}

	results := make([]model.FoodRecord, len(hits))
	for i, h := range hits {
		results[i] = s.records[h.index]
	}
	return results, nil
}

func tokenScore(token, text string) int {
	switch {
	case strings.HasPrefix(text, token):
		return scorePrefix
	case strings.Contains(text, token):
		return scoreContains
	case fuzzyMatch(token, text):
		return scoreFuzzy
	default:
		return 0
	}
}

// fuzzyMatch walks text once, left to right, advancing through the token
// each time the next wanted rune turns up. The token matches when the walk
// consumed at least 60% of it.
func fuzzyMatch(token, text string) bool {
	want := []rune(token)
	if len(want) == 0 {
		return false
	}

	j := 0
	for _, r := range text {
		if r == want[j] {
			j++
			if j == len(want) {
				break
			}
		}
	}

	return j*5 >= len(want)*3
}
