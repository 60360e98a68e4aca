package llm

import (
	"context"
	"errors"
	"image"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"face-assess-bot/internal/domain/entity"
)

const (
	providerGemini     = "gemini"
	defaultGeminiModel = "gemini-1.5-flash"
)

// GeminiConfig параметры Gemini API.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// GeminiProvider выполняет анализ и отчёт одной мультимодальной моделью.
type GeminiProvider struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	prompts Prompts
	retry   RetryPolicy
}

// NewGeminiProvider создаёт клиента Gemini. Close освобождает соединение.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig, prompts Prompts, retry RetryPolicy) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("Gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	if prompts.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompts.System)}}
	}

	return &GeminiProvider{
		client:  client,
		model:   model,
		name:    cfg.Model,
		prompts: prompts,
		retry:   retry,
	}, nil
}

// Name возвращает имя модели.
func (p *GeminiProvider) Name() string {
	return p.name
}

// Close закрывает клиента.
func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

// Analyze отправляет фото модели и возвращает текст оценки.
func (p *GeminiProvider) Analyze(ctx context.Context, img image.Image) (string, error) {
	data, err := encodeJPEG(img)
	if err != nil {
		return "", &entity.ExternalProviderFailure{Provider: providerGemini, Op: "analyze", Err: err}
	}

	parts := []genai.Part{
		genai.Text(p.prompts.Analysis),
		genai.ImageData("jpeg", data),
	}
	return p.retry.do(ctx, providerGemini, "analyze", func(ctx context.Context) (string, error) {
		return p.generate(ctx, "analyze", parts)
	})
}

// Generate строит развёрнутый отчёт по тексту оценки.
func (p *GeminiProvider) Generate(ctx context.Context, assessment string) (string, error) {
	parts := []genai.Part{genai.Text(p.prompts.report(assessment))}

	report, err := p.retry.do(ctx, providerGemini, "generate", func(ctx context.Context) (string, error) {
		return p.generate(ctx, "generate", parts)
	})
	if err != nil {
		return "", err
	}
	return p.prompts.withDisclaimer(report), nil
}

// Ping запрашивает описание модели.
func (p *GeminiProvider) Ping(ctx context.Context) error {
	if _, err := p.model.Info(ctx); err != nil {
		return wrapGemini("ping", err)
	}
	return nil
}

func (p *GeminiProvider) generate(ctx context.Context, op string, parts []genai.Part) (string, error) {
	resp, err := p.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", wrapGemini(op, err)
	}
	if len(resp.Candidates) == 0 {
		return "", wrapGemini(op, errors.New("no candidates in response"))
	}
	return candidateText(resp), nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				result.WriteString(string(txt))
			}
		}
	}
	return result.String()
}

func wrapGemini(op string, err error) error {
	failure := &entity.ExternalProviderFailure{Provider: providerGemini, Op: op, Err: err}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		failure.StatusCode = apiErr.Code
	}
	return failure
}
