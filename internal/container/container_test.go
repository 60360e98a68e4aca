package container

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"face-assess-bot/config"
	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/infrastructure/llm"
	"face-assess-bot/internal/infrastructure/storage"
)

func demoConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTPAddr:        ":0",
		AIProvider:      config.ProviderDemo,
		RulesLocale:     "en",
		WorkspaceDir:    t.TempDir(),
		WorkspaceTTL:    time.Hour,
		ProviderRetries: 1,
		CacheTTL:        time.Minute,
		ChartDPI:        50,
		MaxImageBytes:   1 << 20,
		MinImageSide:    64,
	}
}

func TestNewInfrastructure_Demo(t *testing.T) {
	infra, err := NewInfrastructure(context.Background(), demoConfig(t))
	require.NoError(t, err)
	defer infra.Close()

	require.Equal(t, llm.DemoName, infra.Deps.Provider.Name())
	require.Equal(t, "en", infra.Rulebook.Locale)
	require.Len(t, infra.Deps.Documents, 2)

	c, err := New(storage.NewMemoryUserRepository(), infra.Deps)
	require.NoError(t, err)
	require.NotNil(t, c.UserService)
	require.Equal(t, llm.DemoName, c.AssessmentService.ProviderName())
}

func TestNewInfrastructure_Errors(t *testing.T) {
	cfg := demoConfig(t)
	cfg.RulesLocale = "fr"
	_, err := NewInfrastructure(context.Background(), cfg)
	require.Error(t, err)

	cfg = demoConfig(t)
	cfg.AIProvider = config.ProviderOpenAI
	_, err = NewInfrastructure(context.Background(), cfg)
	require.Error(t, err)
}

func TestInfrastructure_CloseOnce(t *testing.T) {
	calls := 0
	infra := &Infrastructure{closers: []func() error{
		func() error { calls++; return nil },
	}}

	infra.Close()
	infra.Close()
	require.Equal(t, 1, calls)
}

// stripedPhoto достаточно контрастное фото, чтобы пройти проверку качества.
func stripedPhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 160, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 160; x++ {
			v := uint8(70)
			if (x/8+y/8)%2 == 0 {
				v = 190
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDemoPipeline_EndToEnd(t *testing.T) {
	infra, err := NewInfrastructure(context.Background(), demoConfig(t))
	require.NoError(t, err)
	defer infra.Close()

	c, err := New(storage.NewMemoryUserRepository(), infra.Deps)
	require.NoError(t, err)

	out, err := c.AssessmentService.Assess(context.Background(), stripedPhoto(t))
	require.NoError(t, err)
	defer out.Close()

	a := out.Assessment
	require.Equal(t, 0.6, a.Severities[entity.RegionForehead])
	require.Len(t, a.Artifacts.Available(), 3)
	for _, art := range a.Artifacts.Available() {
		require.FileExists(t, art.Path)
	}
	require.Len(t, a.Treatments, 5)
	require.Equal(t, "Botulinum toxin injection", a.Treatments[0].Name)
	require.True(t, strings.HasSuffix(a.ReportText, infra.Rulebook.Prompts.Disclaimer))

	html := out.Document(entity.FormatHTML)
	require.NotNil(t, html)
	require.Equal(t, 3, strings.Count(string(html.Data), "data:image/png;base64,"))

	pdf := out.Document(entity.FormatPDF)
	require.NotNil(t, pdf)
	require.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-")))
}
