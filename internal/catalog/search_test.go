package catalog

import (
	"fmt"
	"strings"
	"testing"

	"carbwise/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchCatalog(descriptions ...string) *Catalog {
	records := make([]model.FoodRecord, len(descriptions))
	for i, d := range descriptions {
		records[i] = model.FoodRecord{ID: fmt.Sprint(i), Description: d, StandardServingGrams: 100}
	}
	return NewWithRecords(records, zerolog.Nop())
}

func descriptions(records []model.FoodRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Description
	}
	return out
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := searchCatalog("Apple, raw")

	for _, q := range []string{"", "   ", "\t\n"} {
		results, err := c.Search(q)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	}
}

func TestSearch_PrefixTieBrokenAlphabetically(t *testing.T) {
	c := searchCatalog("Apple, raw", "Apple juice", "Pineapple, raw")

	results, err := c.Search("appl")
	require.NoError(t, err)

	// both Apple entries start with the token and score equally; the
	// contains-only match ranks last
	assert.Equal(t, []string{"Apple juice", "Apple, raw", "Pineapple, raw"}, descriptions(results))
}

func TestSearch_Scoring(t *testing.T) {
	c := searchCatalog(
		"Rice, white, cooked",
		"Rice, brown, cooked",
		"Beans, white",
		"Bread, white",
		"Wild rice, cooked",
		"Banana, raw",
	)

	results, err := c.Search("white rice")
	require.NoError(t, err)

	// rice white 150, rice brown 100, bread white, wild rice and beans
	// white 50, banana 0
	require.NotEmpty(t, results)
	assert.Equal(t, "Rice, white, cooked", results[0].Description)
	assert.Equal(t, "Rice, brown, cooked", results[1].Description)
	assert.NotContains(t, descriptions(results), "Banana, raw")
}

func TestSearch_FuzzyOnly(t *testing.T) {
	c := searchCatalog("Broccoli, steamed", "Carrot, raw")

	results, err := c.Search("brocli")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Broccoli, steamed", results[0].Description)
}

func TestSearch_FuzzyDropsLeadingTypo(t *testing.T) {
	c := searchCatalog("Apple, raw")

	results, err := c.Search("zpple")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_TieUsesOriginalDescription(t *testing.T) {
	c := searchCatalog("apple pie", "Apple sauce")

	results, err := c.Search("apple")
	require.NoError(t, err)

	// uppercase sorts before lowercase
	assert.Equal(t, []string{"Apple sauce", "apple pie"}, descriptions(results))
}

func TestSearch_CapsAtTen(t *testing.T) {
	var names []string
	for i := 0; i < 25; i++ {
		names = append(names, fmt.Sprintf("Cheese %02d", i))
	}
	c := searchCatalog(names...)

	results, err := c.Search("cheese")
	require.NoError(t, err)
	require.Len(t, results, MaxSearchResults)
	assert.Equal(t, "Cheese 00", results[0].Description)
	assert.Equal(t, "Cheese 09", results[9].Description)
}

func TestSearch_EveryResultMatchesAToken(t *testing.T) {
	c := searchCatalog(
		"Milk, whole", "Milk, skim", "Yogurt, plain", "Oats, cooked", "Orange juice",
		"Potato, baked", "Pasta, cooked", "Chicken breast, roasted", "Egg, boiled",
	)

	for _, q := range []string{"milk", "cooked pasta", "jce", "zzz", "egg boil"} {
		results, err := c.Search(q)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(results), MaxSearchResults)

		tokens := strings.Fields(strings.ToLower(q))
		for _, r := range results {
			matched := false
			for _, tok := range tokens {
				if tokenScore(tok, strings.ToLower(r.Description)) > 0 {
					matched = true
				}
			}
			assert.True(t, matched, "query %q returned %q", q, r.Description)
		}
	}
}

func TestSearch_IsRestartable(t *testing.T) {
	c := searchCatalog("Apple, raw", "Apple juice", "Applesauce")

	first, err := c.Search("apple")
	require.NoError(t, err)
	second, err := c.Search("apple")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		name  string
		token string
		text  string
		want  bool
	}{
		{name: "Full subsequence", token: "brcl", text: "broccoli", want: true},
		{name: "Forty percent", token: "abxyz", text: "ab", want: false},
		{name: "Sixty percent", token: "abcxy", text: "abc", want: true},
		{name: "Out of order", token: "olleh", text: "hello", want: false},
		{name: "Unmatched rune stalls the token", token: "bqrcl", text: "broccoli", want: false},
		{name: "Leading rune absent", token: "xab", text: "ab", want: false},
		{name: "Typo at the end", token: "applx", text: "apple, raw", want: true},
		{name: "Empty token", token: "", text: "anything", want: false},
		{name: "Empty text", token: "abc", text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fuzzyMatch(tt.token, tt.text))
		})
	}
}
