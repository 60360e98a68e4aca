package entity

import (
	"image"
	"time"
)

// Assessment контекст одного запроса на оценку. Создаётся заново на каждое
// фото и живёт до отправки документов пользователю.
type Assessment struct {
	ID        string
	CreatedAt time.Time
	Model     string // модель, выполнившая анализ

	Image          image.Image
	AssessmentText string // ответ vision-модели
	ReportText     string // развёрнутый отчёт

	Severities SeverityMap
	Scores     []CategoryScore
	Treatments []TreatmentEntry
	Artifacts  ArtifactSet
}

// ReportNumber номер отчёта вида AI-20060102150405.
func (a *Assessment) ReportNumber() string {
	return "AI-" + a.CreatedAt.Format("20060102150405")
}

// DocumentFormat формат итогового документа.
type DocumentFormat string

const (
	FormatHTML DocumentFormat = "html"
	FormatPDF  DocumentFormat = "pdf"
)

// Document собранный документ для выдачи пользователю.
type Document struct {
	Format   DocumentFormat
	Name     string
	MIMEType string
	Data     []byte
}
