package chart

import (
	"errors"
	"image"
	"image/color"
	"math"

	xdraw "golang.org/x/image/draw"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/infrastructure/vision"
)

const (
	heatmapWidthInch  = 10
	heatmapHeightInch = 8
	heatmapMaxAlpha   = 0.7
)

// HeatmapRenderer накладывает размытую маску выраженности на фото.
type HeatmapRenderer struct {
	dpi        int
	kernelSize int
}

// NewHeatmapRenderer создаёт рендер тепловой карты.
func NewHeatmapRenderer(dpi int) *HeatmapRenderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &HeatmapRenderer{dpi: dpi, kernelSize: vision.KernelSize}
}

// Render строит маску по затронутым зонам, размывает её и сохраняет
// наложение в outPath.
func (r *HeatmapRenderer) Render(img image.Image, regions []entity.Region, severities entity.SeverityMap, outPath string) (art *entity.Artifact) {
	defer recoverFailure(entity.ArtifactHeatmap, outPath, &art)

	if img == nil {
		logFailure(entity.ArtifactHeatmap, outPath, errors.New("no image"))
		return nil
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		logFailure(entity.ArtifactHeatmap, outPath, errors.New("empty image"))
		return nil
	}

	mask := BuildMask(b.Dx(), b.Dy(), regions, severities)
	if err := vision.Blur(mask, r.kernelSize); err != nil {
		logFailure(entity.ArtifactHeatmap, outPath, err)
		return nil
	}

	overlay := composite(img, mask)

	// Вписываем в кадр 10×8 дюймов при заданном DPI
	frameW, frameH := heatmapWidthInch*r.dpi, heatmapHeightInch*r.dpi
	scale := math.Min(float64(frameW)/float64(b.Dx()), float64(frameH)/float64(b.Dy()))
	outW := max(1, int(math.Round(float64(b.Dx())*scale)))
	outH := max(1, int(math.Round(float64(b.Dy())*scale)))

	out := image.NewRGBA(image.Rect(0, 0, outW, outH))
	xdraw.CatmullRom.Scale(out, out.Bounds(), overlay, overlay.Bounds(), xdraw.Src, nil)

	if err := writePNG(outPath, out); err != nil {
		logFailure(entity.ArtifactHeatmap, outPath, err)
		return nil
	}
	return &entity.Artifact{Kind: entity.ArtifactHeatmap, Path: outPath}
}

// BuildMask заполняет прямоугольники затронутых зон их выраженностью.
// Зоны накладываются по порядку, более поздние перекрывают ранние.
func BuildMask(width, height int, regions []entity.Region, severities entity.SeverityMap) *entity.SeverityMask {
	mask := entity.NewSeverityMask(width, height)
	for _, region := range regions {
		severity := severities[region.Name]
		if severity <= 0 {
			continue
		}
		mask.Fill(region.Bounds.Rect(width, height), severity)
	}
	return mask
}

// composite нормирует маску по min/max и смешивает с фото цвет от
// прозрачного чёрного до красного с непрозрачностью 0.7.
func composite(img image.Image, mask *entity.SeverityMask) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	lo, hi := mask.Range()
	span := hi - lo

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			src := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)

			t := 0.0
			if span > 0 {
				t = (mask.At(x, y) - lo) / span
			}
			a := heatmapMaxAlpha * t

			// Фото считается непрозрачным
			out.SetRGBA(x, y, color.RGBA{
				R: blend(t*255, float64(src.R), a),
				G: blend(0, float64(src.G), a),
				B: blend(0, float64(src.B), a),
				A: 255,
			})
		}
	}
	return out
}

func blend(over, under, alpha float64) uint8 {
	v := over*alpha + under*(1-alpha)
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
