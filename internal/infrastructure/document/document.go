// Package document собирает итоговый отчёт в HTML и PDF из текста отчёта,
// метаданных и построенных диаграмм.
package document

import (
	"fmt"
	"os"

	"face-assess-bot/internal/domain/entity"
)

// Text подписи документа на языке словаря.
type Text struct {
	Title           string
	DateLabel       string
	ModelLabel      string
	NumberLabel     string
	VisualsHeading  string
	ResultHeading   string
	Unavailable     string
	Footer          string
	Disclaimer      string
	HeatmapCaption  string
	RadarCaption    string
	PriorityCaption string
}

// figure диаграмма для вставки в документ; Data пусто, если её нет.
type figure struct {
	Kind    entity.ArtifactKind
	Caption string
	Data    []byte
}

// figures читает построенные диаграммы в фиксированном порядке.
// Отсутствующий или нечитаемый файл даёт заглушку.
func figures(a *entity.Assessment, text Text) []figure {
	items := []figure{
		{Kind: entity.ArtifactHeatmap, Caption: text.HeatmapCaption},
		{Kind: entity.ArtifactRadar, Caption: text.RadarCaption},
		{Kind: entity.ArtifactPriority, Caption: text.PriorityCaption},
	}
	for i := range items {
		art := a.Artifacts.Get(items[i].Kind)
		if art == nil {
			continue
		}
		data, err := os.ReadFile(art.Path)
		if err != nil {
			continue
		}
		items[i].Data = data
	}
	return items
}

func fileName(a *entity.Assessment, format entity.DocumentFormat) string {
	return fmt.Sprintf("report-%s.%s", a.ReportNumber(), format)
}
