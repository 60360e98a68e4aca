package chart

import (
	"errors"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"face-assess-bot/internal/domain/entity"
)

const (
	radarSizeInch   = 8
	radarRings      = 5
	radarLabelRing  = 5.8
	radarPlotExtent = 6.6
	ringSegments    = 72
)

var (
	radarColor = color.RGBA{R: 0xFF, G: 0x57, B: 0x57, A: 0xFF}
	radarFill  = color.NRGBA{R: 0xFF, G: 0x57, B: 0x57, A: 0x40}
	gridColor  = color.Gray{Y: 0xC8}
)

// RadarRenderer рисует оценки категорий на шести осях.
type RadarRenderer struct {
	title string
	dpi   int
}

// NewRadarRenderer создаёт рендер радарной диаграммы с заголовком title.
func NewRadarRenderer(title string, dpi int) *RadarRenderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &RadarRenderer{title: title, dpi: dpi}
}

// RadarPoints переводит оценки в вершины многоугольника: i-я ось под углом
// 2πi/n, последняя вершина повторяет первую.
func RadarPoints(scores []entity.CategoryScore) plotter.XYs {
	n := len(scores)
	pts := make(plotter.XYs, 0, n+1)
	for i, s := range scores {
		angle := axisAngle(i, n)
		pts = append(pts, plotter.XY{X: s.Score * math.Cos(angle), Y: s.Score * math.Sin(angle)})
	}
	if n > 0 {
		pts = append(pts, pts[0])
	}
	return pts
}

// Render сохраняет радарную диаграмму в outPath.
func (r *RadarRenderer) Render(scores []entity.CategoryScore, outPath string) (art *entity.Artifact) {
	defer recoverFailure(entity.ArtifactRadar, outPath, &art)

	if len(scores) < 3 {
		logFailure(entity.ArtifactRadar, outPath, errors.New("need at least three categories"))
		return nil
	}

	p, err := r.plot(scores)
	if err != nil {
		logFailure(entity.ArtifactRadar, outPath, err)
		return nil
	}

	size := radarSizeInch * vg.Inch
	if err := savePlot(p, size, size, r.dpi, outPath); err != nil {
		logFailure(entity.ArtifactRadar, outPath, err)
		return nil
	}
	return &entity.Artifact{Kind: entity.ArtifactRadar, Path: outPath}
}

func (r *RadarRenderer) plot(scores []entity.CategoryScore) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = r.title
	p.Title.TextStyle.Font.Size = vg.Points(15)
	p.HideAxes()
	p.X.Min, p.X.Max = -radarPlotExtent, radarPlotExtent
	p.Y.Min, p.Y.Max = -radarPlotExtent, radarPlotExtent

	n := len(scores)

	// Кольца 1..5 и подписи к ним
	ringLabels := plotter.XYLabels{}
	for ring := 1; ring <= radarRings; ring++ {
		circle := make(plotter.XYs, ringSegments+1)
		for i := range circle {
			a := 2 * math.Pi * float64(i) / ringSegments
			circle[i] = plotter.XY{X: float64(ring) * math.Cos(a), Y: float64(ring) * math.Sin(a)}
		}
		l, err := plotter.NewLine(circle)
		if err != nil {
			return nil, err
		}
		l.LineStyle.Color = gridColor
		l.LineStyle.Width = vg.Points(0.5)
		p.Add(l)

		a := math.Pi / float64(n)
		ringLabels.XYs = append(ringLabels.XYs, plotter.XY{X: float64(ring) * math.Cos(a), Y: float64(ring) * math.Sin(a)})
		ringLabels.Labels = append(ringLabels.Labels, strconv.Itoa(ring))
	}

	// Оси категорий
	axisLabels := plotter.XYLabels{}
	for i, s := range scores {
		a := axisAngle(i, n)
		spoke, err := plotter.NewLine(plotter.XYs{
			{X: 0, Y: 0},
			{X: radarRings * math.Cos(a), Y: radarRings * math.Sin(a)},
		})
		if err != nil {
			return nil, err
		}
		spoke.LineStyle.Color = gridColor
		spoke.LineStyle.Width = vg.Points(0.5)
		p.Add(spoke)

		axisLabels.XYs = append(axisLabels.XYs, plotter.XY{X: radarLabelRing * math.Cos(a), Y: radarLabelRing * math.Sin(a)})
		axisLabels.Labels = append(axisLabels.Labels, s.Label)
	}

	pts := RadarPoints(scores)

	poly, err := plotter.NewPolygon(pts)
	if err != nil {
		return nil, err
	}
	poly.Color = radarFill
	poly.LineStyle.Width = 0
	p.Add(poly)

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = radarColor
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	markers, err := plotter.NewScatter(pts[:n])
	if err != nil {
		return nil, err
	}
	markers.GlyphStyle.Shape = draw.CircleGlyph{}
	markers.GlyphStyle.Color = radarColor
	markers.GlyphStyle.Radius = vg.Points(4)
	p.Add(markers)

	for _, set := range []plotter.XYLabels{ringLabels, axisLabels} {
		labels, err := plotter.NewLabels(set)
		if err != nil {
			return nil, err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].XAlign = text.XCenter
			labels.TextStyle[i].YAlign = text.YCenter
		}
		p.Add(labels)
	}

	return p, nil
}

func axisAngle(i, n int) float64 {
	return 2 * math.Pi * float64(i) / float64(n)
}
