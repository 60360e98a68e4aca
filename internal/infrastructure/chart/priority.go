package chart

import (
	"errors"
	"image/color"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"face-assess-bot/internal/domain/entity"
)

const (
	priorityWidthInch  = 10
	priorityHeightInch = 6
	labelOffset        = 0.1
)

var barColor = color.RGBA{R: 0x5D, G: 0xA5, B: 0xDA, A: 0xFF}

// PriorityRenderer рисует горизонтальные столбцы приоритета процедур.
type PriorityRenderer struct {
	title  string
	xLabel string
	yLabel string
	dpi    int
}

// NewPriorityRenderer создаёт рендер диаграммы приоритетов.
func NewPriorityRenderer(title, xLabel, yLabel string, dpi int) *PriorityRenderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &PriorityRenderer{title: title, xLabel: xLabel, yLabel: yLabel, dpi: dpi}
}

// SortByScore возвращает копию списка, упорядоченную по убыванию оценки.
// При равных оценках сохраняется исходный порядок.
func SortByScore(entries []entity.TreatmentEntry) []entity.TreatmentEntry {
	sorted := make([]entity.TreatmentEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score() > sorted[j].Score()
	})
	return sorted
}

// Render сохраняет диаграмму приоритетов в outPath.
func (r *PriorityRenderer) Render(entries []entity.TreatmentEntry, outPath string) (art *entity.Artifact) {
	defer recoverFailure(entity.ArtifactPriority, outPath, &art)

	if len(entries) == 0 {
		logFailure(entity.ArtifactPriority, outPath, errors.New("no treatments"))
		return nil
	}

	p, err := r.plot(SortByScore(entries))
	if err != nil {
		logFailure(entity.ArtifactPriority, outPath, err)
		return nil
	}

	if err := savePlot(p, priorityWidthInch*vg.Inch, priorityHeightInch*vg.Inch, r.dpi, outPath); err != nil {
		logFailure(entity.ArtifactPriority, outPath, err)
		return nil
	}
	return &entity.Artifact{Kind: entity.ArtifactPriority, Path: outPath}
}

func (r *PriorityRenderer) plot(sorted []entity.TreatmentEntry) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.title
	p.X.Label.Text = r.xLabel
	p.Y.Label.Text = r.yLabel

	values := make(plotter.Values, len(sorted))
	names := make([]string, len(sorted))
	annotations := plotter.XYLabels{}
	lo, hi := 0.0, 0.0
	for i, e := range sorted {
		score := e.Score()
		values[i] = float64(score)
		names[i] = e.Name
		annotations.XYs = append(annotations.XYs, plotter.XY{X: float64(score) + labelOffset, Y: float64(i)})
		annotations.Labels = append(annotations.Labels, strconv.Itoa(score))
		lo = math.Min(lo, float64(score))
		hi = math.Max(hi, float64(score))
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	labels, err := plotter.NewLabels(annotations)
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].YAlign = text.YCenter
	}
	p.Add(labels)

	p.NominalY(names...)
	p.X.Min = lo
	p.X.Max = hi + 1

	return p, nil
}
