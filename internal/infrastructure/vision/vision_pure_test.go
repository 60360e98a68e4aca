//go:build !gocv
// +build !gocv

package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"face-assess-bot/internal/domain/entity"
)

func TestGaussianKernel(t *testing.T) {
	require.InDelta(t, 8.0, gaussianSigma(KernelSize), 1e-9)

	kernel := gaussianKernel(KernelSize)
	require.Len(t, kernel, KernelSize)

	var sum float64
	for _, w := range kernel {
		sum += w
	}
	require.InDelta(t, 1.0, sum, 1e-12)
	require.InDelta(t, kernel[0], kernel[KernelSize-1], 1e-15)
	require.Greater(t, kernel[KernelSize/2], kernel[KernelSize/2-1])
}

func TestReflect101(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{0, 5, 0},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 5, 1},
		{3, 1, 0},
	}
	for _, c := range cases {
		require.Equal(t, c.want, reflect101(c.i, c.n), "reflect101(%d, %d)", c.i, c.n)
	}
}

func TestBlur_RejectsEvenKernel(t *testing.T) {
	require.Error(t, Blur(entity.NewSeverityMask(4, 4), 4))
}

func TestQualityGate_MidGrayPasses(t *testing.T) {
	gate := NewQualityGate(64)
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	fill(img, color.RGBA{R: 128, G: 128, B: 128, A: 255})

	require.NoError(t, gate.Check(img))
}
