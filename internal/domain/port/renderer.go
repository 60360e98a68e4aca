package port

import (
	"image"

	"face-assess-bot/internal/domain/entity"
)

// Рендеры диаграмм не возвращают ошибок: при сбое они пишут в лог и
// возвращают nil, чтобы остальные диаграммы и документ всё равно собрались.

// HeatmapRenderer накладывает тепловую карту на фото
type HeatmapRenderer interface {
	Render(img image.Image, regions []entity.Region, severities entity.SeverityMap, outPath string) *entity.Artifact
}

// RadarRenderer рисует радарную диаграмму оценок
type RadarRenderer interface {
	Render(scores []entity.CategoryScore, outPath string) *entity.Artifact
}

// PriorityRenderer рисует диаграмму приоритетов процедур
type PriorityRenderer interface {
	Render(entries []entity.TreatmentEntry, outPath string) *entity.Artifact
}

// DocumentRenderer собирает итоговый документ
type DocumentRenderer interface {
	Format() entity.DocumentFormat
	Render(a *entity.Assessment) (*entity.Document, error)
}
