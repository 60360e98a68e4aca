package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"image"

	openai "github.com/sashabaranov/go-openai"

	"face-assess-bot/internal/domain/entity"
)

const providerOpenAI = "openai"

// OpenAIConfig параметры OpenAI-совместимого API.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string // если пусто, api.openai.com
	VisionModel string
	ReportModel string
	Temperature float32
	MaxTokens   int
}

// OpenAIProvider анализирует фото vision-моделью и пишет отчёт текстовой моделью.
type OpenAIProvider struct {
	client  *openai.Client
	cfg     OpenAIConfig
	prompts Prompts
	retry   RetryPolicy
}

// NewOpenAIProvider создаёт провайдера; ключ обязателен.
func NewOpenAIProvider(cfg OpenAIConfig, prompts Prompts, retry RetryPolicy) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = openai.GPT4o
	}
	if cfg.ReportModel == "" {
		cfg.ReportModel = cfg.VisionModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		cfg:     cfg,
		prompts: prompts,
		retry:   retry,
	}, nil
}

// Name возвращает имя vision-модели.
func (p *OpenAIProvider) Name() string {
	return p.cfg.VisionModel
}

// Analyze отправляет фото vision-модели и возвращает текст оценки.
func (p *OpenAIProvider) Analyze(ctx context.Context, img image.Image) (string, error) {
	data, err := encodeJPEG(img)
	if err != nil {
		return "", &entity.ExternalProviderFailure{Provider: providerOpenAI, Op: "analyze", Err: err}
	}
	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)

	messages := p.systemMessages()
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		MultiContent: []openai.ChatMessagePart{
			{
				Type: openai.ChatMessagePartTypeText,
				Text: p.prompts.Analysis,
			},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    dataURI,
					Detail: openai.ImageURLDetailAuto,
				},
			},
		},
	})

	return p.retry.do(ctx, providerOpenAI, "analyze", func(ctx context.Context) (string, error) {
		return p.complete(ctx, "analyze", p.cfg.VisionModel, messages)
	})
}

// Generate строит развёрнутый отчёт по тексту оценки.
func (p *OpenAIProvider) Generate(ctx context.Context, assessment string) (string, error) {
	messages := p.systemMessages()
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: p.prompts.report(assessment),
	})

	report, err := p.retry.do(ctx, providerOpenAI, "generate", func(ctx context.Context) (string, error) {
		return p.complete(ctx, "generate", p.cfg.ReportModel, messages)
	})
	if err != nil {
		return "", err
	}
	return p.prompts.withDisclaimer(report), nil
}

// Ping проверяет ключ запросом списка моделей.
func (p *OpenAIProvider) Ping(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return p.wrap("ping", err)
	}
	return nil
}

func (p *OpenAIProvider) systemMessages() []openai.ChatCompletionMessage {
	if p.prompts.System == "" {
		return nil
	}
	return []openai.ChatCompletionMessage{{
		Role:    openai.ChatMessageRoleSystem,
		Content: p.prompts.System,
	}}
}

func (p *OpenAIProvider) complete(ctx context.Context, op, model string, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	})
	if err != nil {
		return "", p.wrap(op, err)
	}
	if len(resp.Choices) == 0 {
		return "", p.wrap(op, errors.New("no choices in response"))
	}
	return resp.Choices[0].Message.Content, nil
}

// wrap переводит ошибки go-openai в ExternalProviderFailure с HTTP-статусом.
func (p *OpenAIProvider) wrap(op string, err error) error {
	failure := &entity.ExternalProviderFailure{Provider: providerOpenAI, Op: op, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		failure.StatusCode = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		failure.StatusCode = reqErr.HTTPStatusCode
	}
	return failure
}
