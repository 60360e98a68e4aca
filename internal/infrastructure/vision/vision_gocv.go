//go:build gocv
// +build gocv

package vision

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"face-assess-bot/internal/domain/entity"
)

// Blur сглаживает маску на месте ядром ksize×ksize.
func Blur(mask *entity.SeverityMask, ksize int) error {
	if mask.Width == 0 || mask.Height == 0 {
		return nil
	}

	src, err := gocv.NewMatFromBytes(mask.Height, mask.Width, gocv.MatTypeCV64F, float64sToBytes(mask.Values))
	if err != nil {
		return fmt.Errorf("mask to mat: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.GaussianBlur(src, &dst, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)

	values, err := dst.DataPtrFloat64()
	if err != nil {
		return fmt.Errorf("read blurred mask: %w", err)
	}
	copy(mask.Values, values)
	return nil
}

// Check проверяет размер, резкость, экспозицию и блики.
func (g *QualityGate) Check(img image.Image) error {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("image to mat: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return errors.New("empty image")
	}
	if mat.Cols() < g.MinImageSide || mat.Rows() < g.MinImageSide {
		return fmt.Errorf("image is too small (%dx%d)", mat.Cols(), mat.Rows())
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, 80, 160)
	if edgeRatio := ratioOfMask(edges); edgeRatio < g.MinSharpnessEdgeRatio {
		return fmt.Errorf("image is blurry (edge_ratio=%.4f)", edgeRatio)
	}

	bright := gocv.NewMat()
	defer bright.Close()
	gocv.Threshold(gray, &bright, 250, 255, gocv.ThresholdBinary)
	if ratio := ratioOfMask(bright); ratio > g.MaxOverexposedRatio {
		return fmt.Errorf("overexposed image (ratio=%.4f)", ratio)
	}

	dark := gocv.NewMat()
	defer dark.Close()
	gocv.Threshold(gray, &dark, 20, 255, gocv.ThresholdBinaryInv)
	if ratio := ratioOfMask(dark); ratio > g.MaxUnderexposedRatio {
		return fmt.Errorf("underexposed image (ratio=%.4f)", ratio)
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	for i := range channels {
		defer channels[i].Close()
	}
	if len(channels) < 3 {
		return errors.New("invalid hsv channels")
	}

	lowSat := gocv.NewMat()
	defer lowSat.Close()
	gocv.Threshold(channels[1], &lowSat, 40, 255, gocv.ThresholdBinaryInv)

	highVal := gocv.NewMat()
	defer highVal.Close()
	gocv.Threshold(channels[2], &highVal, 245, 255, gocv.ThresholdBinary)

	glare := gocv.NewMat()
	defer glare.Close()
	gocv.BitwiseAnd(lowSat, highVal, &glare)
	if ratio := ratioOfMask(glare); ratio > g.MaxGlareRatio {
		return fmt.Errorf("too much glare (ratio=%.4f)", ratio)
	}

	return nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

func float64sToBytes(values []float64) []byte {
	buf := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}
