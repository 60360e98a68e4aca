package entity

import (
	"fmt"
	"image"
)

// Идентификаторы зон лица. Порядок в RegionOrder совпадает с порядком
// наложения на маску: более поздние зоны перекрывают ранние.
const (
	RegionForehead   = "forehead"
	RegionEyeArea    = "eye_area"
	RegionCheekbones = "cheekbones"
	RegionNose       = "nose"
	RegionLips       = "lips"
	RegionChin       = "chin"
)

// RegionOrder фиксированный список зон.
var RegionOrder = []string{
	RegionForehead,
	RegionEyeArea,
	RegionCheekbones,
	RegionNose,
	RegionLips,
	RegionChin,
}

// Bounds прямоугольник зоны в долях высоты (Y) и ширины (X) изображения.
type Bounds struct {
	Y1 float64 `yaml:"y1" json:"y1"`
	Y2 float64 `yaml:"y2" json:"y2"`
	X1 float64 `yaml:"x1" json:"x1"`
	X2 float64 `yaml:"x2" json:"x2"`
}

// Validate проверяет 0 ≤ y1 < y2 ≤ 1 и 0 ≤ x1 < x2 ≤ 1.
func (b Bounds) Validate() error {
	if b.Y1 < 0 || b.Y2 > 1 || b.Y1 >= b.Y2 {
		return fmt.Errorf("invalid vertical bounds [%g, %g]", b.Y1, b.Y2)
	}
	if b.X1 < 0 || b.X2 > 1 || b.X1 >= b.X2 {
		return fmt.Errorf("invalid horizontal bounds [%g, %g]", b.X1, b.X2)
	}
	return nil
}

// Rect переводит доли в пиксели изображения width×height.
// Координаты усекаются к целому и ограничиваются размером изображения.
func (b Bounds) Rect(width, height int) image.Rectangle {
	y1 := clampInt(int(float64(height)*b.Y1), 0, height)
	y2 := clampInt(int(float64(height)*b.Y2), 0, height)
	x1 := clampInt(int(float64(width)*b.X1), 0, width)
	x2 := clampInt(int(float64(width)*b.X2), 0, width)
	return image.Rect(x1, y1, x2, y2)
}

// Region зона лица с ключевыми словами
type Region struct {
	Name   string // идентификатор зоны
	Label  string // подпись для отчёта
	Bounds Bounds
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
