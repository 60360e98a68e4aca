package entity

import "image"

// SeverityMap выраженность проблемы по зонам лица, значения в [0,1].
// Отсутствующая зона означает 0.
type SeverityMap map[string]float64

// Affected возвращает зоны с ненулевой выраженностью в порядке RegionOrder.
func (m SeverityMap) Affected() []string {
	out := make([]string, 0, len(m))
	for _, name := range RegionOrder {
		if m[name] > 0 {
			out = append(out, name)
		}
	}
	return out
}

// SeverityMask двумерное поле выраженности размером с исходное изображение.
type SeverityMask struct {
	Width  int
	Height int
	Values []float64 // построчно, len = Width*Height
}

// NewSeverityMask создаёт маску, заполненную нулями.
func NewSeverityMask(width, height int) *SeverityMask {
	return &SeverityMask{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
}

// At возвращает значение в точке (x, y).
func (m *SeverityMask) At(x, y int) float64 {
	return m.Values[y*m.Width+x]
}

// Fill записывает value во все точки прямоугольника r (с обрезкой по маске).
func (m *SeverityMask) Fill(r image.Rectangle, value float64) {
	r = r.Intersect(image.Rect(0, 0, m.Width, m.Height))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.Values[y*m.Width : (y+1)*m.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = value
		}
	}
}

// Range возвращает минимум и максимум маски.
func (m *SeverityMask) Range() (lo, hi float64) {
	if len(m.Values) == 0 {
		return 0, 0
	}
	lo, hi = m.Values[0], m.Values[0]
	for _, v := range m.Values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
