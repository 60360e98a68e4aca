// Package vision содержит операции над пикселями: сглаживание маски
// тепловой карты и проверку качества присланного фото. С тегом сборки gocv
// используется OpenCV, без него используется реализация на чистом Go.
package vision

// KernelSize размер ядра Гаусса для маски тепловой карты.
const KernelSize = 51

// QualityGate пороги проверки фото перед отправкой в модель.
type QualityGate struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64 // только gocv
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64 // только gocv
}

// NewQualityGate создаёт проверку с порогами по умолчанию.
func NewQualityGate(minSide int) *QualityGate {
	return &QualityGate{
		MinImageSide:          minSide,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}
}

// gaussianSigma повторяет выбор OpenCV для sigma = 0.
func gaussianSigma(ksize int) float64 {
	return 0.3*(float64(ksize-1)*0.5-1) + 0.8
}
