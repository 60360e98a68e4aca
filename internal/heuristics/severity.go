package heuristics

import (
	"strings"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/domain/port"
)

// SeverityClassifier отмечает зону затронутой, если текст содержит любое её
// ключевое слово. Сравнение регистрозависимое, по сырому тексту.
type SeverityClassifier struct {
	rb *Rulebook
}

// NewSeverityClassifier создаёт классификатор по словарю.
func NewSeverityClassifier(rb *Rulebook) *SeverityClassifier {
	return &SeverityClassifier{rb: rb}
}

// Classify возвращает выраженность для всех шести зон; незатронутые зоны
// получают 0.
func (c *SeverityClassifier) Classify(text string) entity.SeverityMap {
	out := make(entity.SeverityMap, len(c.rb.Regions))
	for _, r := range c.rb.Regions {
		if !containsAny(text, r.Keywords) {
			out[r.Name] = 0
			continue
		}

		intensity := r.Intensity
		if len(intensity) == 0 {
			intensity = c.rb.Intensity
		}
		if containsAny(text, intensity) {
			out[r.Name] = r.Escalated
		} else {
			out[r.Name] = r.Base
		}
	}
	return out
}

// Regions зоны в порядке наложения.
func (c *SeverityClassifier) Regions() []entity.Region {
	return c.rb.RegionList()
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(text, k) {
			return true
		}
	}
	return false
}

var _ port.SeverityClassifier = (*SeverityClassifier)(nil)
