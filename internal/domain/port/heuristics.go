package port

import "face-assess-bot/internal/domain/entity"

// SeverityClassifier оценивает выраженность проблем по зонам лица
type SeverityClassifier interface {
	Classify(text string) entity.SeverityMap
	Regions() []entity.Region
}

// RadarScorer считает оценки категорий для радарной диаграммы
type RadarScorer interface {
	Score(text string) []entity.CategoryScore
}

// TreatmentParser извлекает список процедур из отчёта
type TreatmentParser interface {
	Parse(report string) []entity.TreatmentEntry
}
