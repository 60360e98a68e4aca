// Package chart строит PNG-диаграммы для отчёта: тепловую карту поверх фото,
// радарную диаграмму оценок и диаграмму приоритетов процедур.
//
// Рендеры не возвращают ошибок: при сбое пишут предупреждение в лог и
// возвращают nil, файл при этом не создаётся.
package chart

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"face-assess-bot/internal/domain/entity"
)

// DefaultDPI разрешение диаграмм по умолчанию.
const DefaultDPI = 300

func logFailure(kind entity.ArtifactKind, path string, err error) {
	slog.Warn("Chart rendering failed",
		"artifact", string(kind),
		"path", path,
		"error", &entity.RenderFailure{Artifact: kind, Err: err},
	)
}

// recoverFailure перехватывает панику рендера и превращает её в nil-артефакт.
func recoverFailure(kind entity.ArtifactKind, path string, out **entity.Artifact) {
	if r := recover(); r != nil {
		_ = os.Remove(path)
		logFailure(kind, path, fmt.Errorf("panic: %v", r))
		*out = nil
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

func savePlot(p *plot.Plot, width, height vg.Length, dpi int, path string) error {
	c := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	p.Draw(draw.New(c))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
