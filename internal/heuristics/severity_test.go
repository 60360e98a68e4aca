package heuristics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"face-assess-bot/internal/domain/entity"
)

func TestClassify_ForeheadSevereWrinkles(t *testing.T) {
	c := NewSeverityClassifier(mustRulebook(t, "en"))

	got := c.Classify("forehead has severe wrinkles")

	require.Len(t, got, 6)
	require.Equal(t, 0.9, got[entity.RegionForehead])
	for _, name := range entity.RegionOrder[1:] {
		require.Zero(t, got[name], name)
	}
}

func TestClassify_NoKeywordMeansZero(t *testing.T) {
	rb := mustRulebook(t, "en")
	c := NewSeverityClassifier(rb)

	for i, region := range rb.Regions {
		// Текст из слов других зон и усилителей, не содержащий слов этой зоны
		var words []string
		words = append(words, rb.Intensity...)
		for j, other := range rb.Regions {
			if j == i {
				continue
			}
			for _, k := range other.Keywords {
				if !containsAny(k, region.Keywords) {
					words = append(words, k)
				}
			}
		}
		text := strings.Join(words, " ")
		require.False(t, containsAny(text, region.Keywords))

		got := c.Classify(text)
		require.Zero(t, got[region.Name], region.Name)
	}
}

func TestClassify_IntensityEscalates(t *testing.T) {
	rb := mustRulebook(t, "en")
	c := NewSeverityClassifier(rb)

	for _, region := range rb.Regions {
		for _, kw := range region.Keywords {
			plain := c.Classify("noted: " + kw)
			require.Equal(t, region.Base, plain[region.Name], kw)

			for _, intensity := range rb.Intensity {
				got := c.Classify(intensity + " " + kw)
				require.Equal(t, region.Escalated, got[region.Name], "%s + %s", intensity, kw)
			}
		}
	}
}

func TestClassify_CaseSensitive(t *testing.T) {
	c := NewSeverityClassifier(mustRulebook(t, "en"))

	got := c.Classify("FOREHEAD Wrinkle")
	require.Zero(t, got[entity.RegionForehead])
}

func TestClassify_ChineseRegionSpecificIntensity(t *testing.T) {
	c := NewSeverityClassifier(mustRulebook(t, "zh"))

	// «明显» усиливает все зоны, кроме лба; для лба работает «深度»
	got := c.Classify("额头有明显皱纹，眼周有黑眼圈")
	require.Equal(t, 0.7, got[entity.RegionForehead])
	require.Equal(t, 0.9, got[entity.RegionEyeArea])

	got = c.Classify("额头深度皱纹，嘴唇干燥")
	require.Equal(t, 0.9, got[entity.RegionForehead])
	require.Equal(t, 0.5, got[entity.RegionLips])
}

func TestClassify_DemoAssessment(t *testing.T) {
	rb := mustRulebook(t, "en")
	got := NewSeverityClassifier(rb).Classify(rb.Demo.Assessment)

	require.ElementsMatch(t, entity.RegionOrder, got.Affected())
	for _, name := range entity.RegionOrder {
		require.Equal(t, 0.6, got[name], name)
	}
}
