package heuristics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"face-assess-bot/internal/domain/entity"
)

func mustRulebook(t *testing.T, locale string) *Rulebook {
	t.Helper()
	rb, err := LoadRulebook(locale)
	require.NoError(t, err)
	return rb
}

func TestLoadRulebook_BuiltinLocales(t *testing.T) {
	for _, locale := range []string{"en", "zh"} {
		rb := mustRulebook(t, locale)
		require.Equal(t, locale, rb.Locale)
		require.Len(t, rb.Regions, 6)
		require.Len(t, rb.Categories, 6)
		require.Len(t, rb.Treatments.Fallback, 5)
		require.Contains(t, rb.Prompts.Report, "{{assessment}}")
		require.NotEmpty(t, rb.Demo.Assessment)
	}

	rb, err := LoadRulebook("")
	require.NoError(t, err)
	require.Equal(t, DefaultLocale, rb.Locale)

	_, err = LoadRulebook("xx")
	require.Error(t, err)
}

func TestRulebook_RegionListKeepsOverlap(t *testing.T) {
	regions := mustRulebook(t, "en").RegionList()
	require.Len(t, regions, 6)

	for i, r := range regions {
		require.Equal(t, entity.RegionOrder[i], r.Name)
		require.NoError(t, r.Bounds.Validate())
	}

	// Нос пересекается с зоной глаз и скулами
	nose := regions[3].Bounds.Rect(100, 100)
	require.True(t, nose.Overlaps(regions[1].Bounds.Rect(100, 100)))
	require.True(t, nose.Overlaps(regions[2].Bounds.Rect(100, 100)))
}

func TestParseRulebook_Rejects(t *testing.T) {
	data, err := builtinRules.ReadFile("rules/en.yaml")
	require.NoError(t, err)
	src := string(data)

	_, err = ParseRulebook([]byte(src + "\nunknown_field: 1\n"))
	require.Error(t, err)

	swapped := strings.Replace(src, "name: forehead", "name: brow", 1)
	_, err = ParseRulebook([]byte(swapped))
	require.ErrorContains(t, err, "region 0")

	badBounds := strings.Replace(src, "{y1: 0.1, y2: 0.3, x1: 0.3, x2: 0.7}", "{y1: 0.3, y2: 0.1, x1: 0.3, x2: 0.7}", 1)
	_, err = ParseRulebook([]byte(badBounds))
	require.ErrorContains(t, err, "forehead")
}

func TestLoadRulebookFile(t *testing.T) {
	data, err := builtinRules.ReadFile("rules/en.yaml")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rb, err := LoadRulebookFile(path)
	require.NoError(t, err)
	require.Equal(t, "en", rb.Locale)

	_, err = LoadRulebookFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
