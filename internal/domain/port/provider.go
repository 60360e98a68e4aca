package port

import (
	"context"
	"image"
)

// AnalysisProvider vision-модель, описывающая лицо на фото
type AnalysisProvider interface {
	// Analyze возвращает текстовую оценку лица
	Analyze(ctx context.Context, img image.Image) (string, error)
}

// ReportProvider модель, составляющая развёрнутый отчёт
type ReportProvider interface {
	// Generate строит отчёт по тексту оценки
	Generate(ctx context.Context, assessment string) (string, error)
}

// Provider объединяет обе роли и проверку доступности.
type Provider interface {
	AnalysisProvider
	ReportProvider

	// Name имя модели для отчёта
	Name() string

	// Ping проверяет ключ и доступность API
	Ping(ctx context.Context) error
}
