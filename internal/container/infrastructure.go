package container

import (
	"context"
	"fmt"
	"log/slog"

	"face-assess-bot/config"
	app "face-assess-bot/internal/application"
	"face-assess-bot/internal/domain/port"
	"face-assess-bot/internal/heuristics"
	"face-assess-bot/internal/infrastructure/chart"
	"face-assess-bot/internal/infrastructure/document"
	"face-assess-bot/internal/infrastructure/imageio"
	"face-assess-bot/internal/infrastructure/llm"
	"face-assess-bot/internal/infrastructure/storage"
	"face-assess-bot/internal/infrastructure/vision"
)

// Infrastructure собранные адаптеры и то, что нужно закрыть при выходе.
type Infrastructure struct {
	Deps       app.AssessmentDeps
	Workspaces *storage.WorkspaceStore
	Rulebook   *heuristics.Rulebook
	closers    []func() error
}

// Close освобождает клиентов внешних API. Повторный вызов ничего не делает.
func (i *Infrastructure) Close() {
	closers := i.closers
	i.closers = nil
	for _, c := range closers {
		if err := c(); err != nil {
			slog.Warn("Failed to close infrastructure", "error", err)
		}
	}
}

// NewInfrastructure собирает адаптеры по конфигурации.
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	rb, err := loadRulebook(cfg)
	if err != nil {
		return nil, err
	}

	workspaces, err := storage.NewWorkspaceStore(cfg.WorkspaceDir, cfg.WorkspaceTTL)
	if err != nil {
		return nil, err
	}

	infra := &Infrastructure{Workspaces: workspaces, Rulebook: rb}

	provider, err := newProvider(ctx, cfg, rb, infra)
	if err != nil {
		return nil, err
	}

	infra.Deps = app.AssessmentDeps{
		Provider:   provider,
		Decoder:    imageio.NewDecoder(cfg.MaxImageBytes),
		Quality:    vision.NewQualityGate(cfg.MinImageSide),
		Cache:      storage.NewAssessmentCache(cfg.CacheTTL),
		Workspaces: workspaces,

		Classifier: heuristics.NewSeverityClassifier(rb),
		Scorer:     heuristics.NewRadarScorer(rb),
		Parser:     heuristics.NewTreatmentParser(rb),

		Heatmap:  chart.NewHeatmapRenderer(cfg.ChartDPI),
		Radar:    chart.NewRadarRenderer(rb.Charts.RadarTitle, cfg.ChartDPI),
		Priority: chart.NewPriorityRenderer(rb.Charts.PriorityTitle, rb.Charts.PriorityX, rb.Charts.PriorityY, cfg.ChartDPI),
		Documents: []port.DocumentRenderer{
			document.NewHTMLRenderer(documentText(rb)),
			document.NewPDFRenderer(documentText(rb), cfg.PDFFontFile),
		},
	}

	slog.Info("Infrastructure ready",
		"provider", cfg.AIProvider,
		"model", provider.Name(),
		"rules", rb.Locale,
		"workspace_dir", cfg.WorkspaceDir,
	)
	return infra, nil
}

func loadRulebook(cfg *config.Config) (*heuristics.Rulebook, error) {
	if cfg.RulesFile != "" {
		return heuristics.LoadRulebookFile(cfg.RulesFile)
	}
	return heuristics.LoadRulebook(cfg.RulesLocale)
}

func newProvider(ctx context.Context, cfg *config.Config, rb *heuristics.Rulebook, infra *Infrastructure) (port.Provider, error) {
	prompts := llm.Prompts{
		System:     rb.Prompts.System,
		Analysis:   rb.Prompts.Analysis,
		Report:     rb.Prompts.Report,
		Disclaimer: rb.Prompts.Disclaimer,
	}
	retry := llm.RetryPolicy{
		Attempts: cfg.ProviderRetries,
		Backoff:  cfg.ProviderBackoff,
		Timeout:  cfg.ProviderTimeout,
		Limiter:  llm.NewLimiter(cfg.ProviderRateInterval),
	}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			VisionModel: cfg.OpenAIVisionModel,
			ReportModel: cfg.OpenAIReportModel,
			Temperature: 0.7,
		}, prompts, retry)

	case config.ProviderGemini:
		p, err := llm.NewGeminiProvider(ctx, llm.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: 0.7,
		}, prompts, retry)
		if err != nil {
			return nil, err
		}
		infra.closers = append(infra.closers, p.Close)
		return p, nil

	case config.ProviderDemo:
		return llm.NewDemoProvider(rb.Demo.Assessment, rb.Demo.Report, prompts), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.AIProvider)
}

func documentText(rb *heuristics.Rulebook) document.Text {
	return document.Text{
		Title:           rb.Document.Title,
		DateLabel:       rb.Document.DateLabel,
		ModelLabel:      rb.Document.ModelLabel,
		NumberLabel:     rb.Document.NumberLabel,
		VisualsHeading:  rb.Document.VisualsHeading,
		ResultHeading:   rb.Document.ResultHeading,
		Unavailable:     rb.Document.Unavailable,
		Footer:          rb.Document.Footer,
		Disclaimer:      rb.Document.Disclaimer,
		HeatmapCaption:  rb.Charts.HeatmapTitle,
		RadarCaption:    rb.Charts.RadarTitle,
		PriorityCaption: rb.Charts.PriorityTitle,
	}
}
