package heuristics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"face-assess-bot/internal/domain/entity"
)

func scoresByCategory(scores []entity.CategoryScore) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for _, s := range scores {
		out[s.Category] = s.Score
	}
	return out
}

func TestScore_DryAndDull(t *testing.T) {
	s := NewRadarScorer(mustRulebook(t, "en"))

	scores := s.Score("The skin looks dry and dull.")
	require.Len(t, scores, 6)
	for i, sc := range scores {
		require.Equal(t, entity.CategoryOrder[i], sc.Category)
	}

	got := scoresByCategory(scores)
	require.Equal(t, 4.5, got[entity.CategorySkinQuality])
	require.Equal(t, 4.0, got[entity.CategoryToneEvenness])
	for _, c := range []string{entity.CategoryWrinkles, entity.CategorySpots, entity.CategoryFirmness, entity.CategoryPores} {
		require.Equal(t, 5.0, got[c], c)
	}
}

func TestScore_EmptyTextIsPerfect(t *testing.T) {
	for _, sc := range NewRadarScorer(mustRulebook(t, "en")).Score("") {
		require.Equal(t, entity.MaxCategoryScore, sc.Score)
	}
}

func TestScore_AllRulesMatch(t *testing.T) {
	s := NewRadarScorer(mustRulebook(t, "en"))

	got := scoresByCategory(s.Score("deep wrinkles and fine lines; dilated pores, enlarged pores"))
	// wrinkle + fine lines + deep wrinkles = 3.5
	require.Equal(t, 1.5, got[entity.CategoryWrinkles])
	// pores + enlarged pores + dilated pores = 3.5
	require.Equal(t, 1.5, got[entity.CategoryPores])
}

func TestScore_ClampedToRange(t *testing.T) {
	rb := mustRulebook(t, "en")
	rb.Categories[0].Rules = []Deduction{
		{Keyword: "a", Deduction: 3},
		{Keyword: "b", Deduction: 3},
		{Keyword: "c", Deduction: 3},
	}
	s := NewRadarScorer(rb)

	for _, text := range []string{"a", "ab", "abc", "abc abc"} {
		for _, sc := range s.Score(text) {
			require.GreaterOrEqual(t, sc.Score, 0.0)
			require.LessOrEqual(t, sc.Score, entity.MaxCategoryScore)
		}
	}
	require.Equal(t, 0.0, s.Score("abc")[0].Score)
	require.Equal(t, 2.0, s.Score("a")[0].Score)
}
