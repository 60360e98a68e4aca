//go:build !gocv
// +build !gocv

package vision

import (
	"fmt"
	"image"
	"math"

	"face-assess-bot/internal/domain/entity"
)

// Blur сглаживает маску на месте ядром ksize×ksize. Граница отражается без
// повтора крайнего пикселя (как BORDER_REFLECT_101 в OpenCV).
func Blur(mask *entity.SeverityMask, ksize int) error {
	if ksize < 1 || ksize%2 == 0 {
		return fmt.Errorf("kernel size must be odd and positive, got %d", ksize)
	}
	if mask.Width == 0 || mask.Height == 0 {
		return nil
	}

	kernel := gaussianKernel(ksize)
	half := ksize / 2
	w, h := mask.Width, mask.Height
	tmp := make([]float64, len(mask.Values))

	// Проход по строкам
	for y := 0; y < h; y++ {
		row := mask.Values[y*w : (y+1)*w]
		out := tmp[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			var sum float64
			for k, weight := range kernel {
				sum += weight * row[reflect101(x+k-half, w)]
			}
			out[x] = sum
		}
	}

	// Проход по столбцам
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			var sum float64
			for k, weight := range kernel {
				sum += weight * tmp[reflect101(y+k-half, h)*w+x]
			}
			mask.Values[y*w+x] = sum
		}
	}
	return nil
}

// Check проверяет размер и экспозицию фото.
func (g *QualityGate) Check(img image.Image) error {
	b := img.Bounds()
	if b.Dx() < g.MinImageSide || b.Dy() < g.MinImageSide {
		return fmt.Errorf("image is too small (%dx%d)", b.Dx(), b.Dy())
	}

	var bright, dark int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			l := luma(img.At(x, y).RGBA())
			if l > 250 {
				bright++
			}
			if l < 20 {
				dark++
			}
		}
	}

	total := float64(b.Dx() * b.Dy())
	if ratio := float64(bright) / total; ratio > g.MaxOverexposedRatio {
		return fmt.Errorf("overexposed image (ratio=%.4f)", ratio)
	}
	if ratio := float64(dark) / total; ratio > g.MaxUnderexposedRatio {
		return fmt.Errorf("underexposed image (ratio=%.4f)", ratio)
	}
	return nil
}

func gaussianKernel(ksize int) []float64 {
	sigma := gaussianSigma(ksize)
	half := ksize / 2
	kernel := make([]float64, ksize)

	var sum float64
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// luma переводит 16-битные компоненты в яркость 0..255 (BT.601).
func luma(r, g, b, _ uint32) float64 {
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257
}
