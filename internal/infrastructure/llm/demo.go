package llm

import (
	"context"
	"image"
)

// DemoName имя модели в отчётах демо-режима.
const DemoName = "demo"

// DemoProvider возвращает заранее заданные тексты без обращения к сети.
// Используется, когда ключи API не настроены.
type DemoProvider struct {
	assessment string
	report     string
	prompts    Prompts
}

// NewDemoProvider создаёт демо-провайдера с текстами из словаря.
func NewDemoProvider(assessment, report string, prompts Prompts) *DemoProvider {
	return &DemoProvider{assessment: assessment, report: report, prompts: prompts}
}

func (p *DemoProvider) Name() string { return DemoName }

func (p *DemoProvider) Analyze(ctx context.Context, _ image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.assessment, nil
}

func (p *DemoProvider) Generate(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.prompts.withDisclaimer(p.report), nil
}

func (p *DemoProvider) Ping(context.Context) error { return nil }
