package heuristics

import (
	"strings"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/domain/port"
)

// RadarScorer начинает каждую категорию с 5 и вычитает штраф за каждое
// найденное ключевое слово.
type RadarScorer struct {
	rb *Rulebook
}

// NewRadarScorer создаёт оценщик по словарю.
func NewRadarScorer(rb *Rulebook) *RadarScorer {
	return &RadarScorer{rb: rb}
}

// Score возвращает шесть оценок в порядке entity.CategoryOrder.
func (s *RadarScorer) Score(text string) []entity.CategoryScore {
	out := make([]entity.CategoryScore, 0, len(s.rb.Categories))
	for _, c := range s.rb.Categories {
		score := entity.MaxCategoryScore
		for _, rule := range c.Rules {
			if strings.Contains(text, rule.Keyword) {
				score -= rule.Deduction
			}
		}
		out = append(out, entity.CategoryScore{
			Category: c.Name,
			Label:    c.Label,
			Score:    clampScore(score),
		})
	}
	return out
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > entity.MaxCategoryScore {
		return entity.MaxCategoryScore
	}
	return v
}

var _ port.RadarScorer = (*RadarScorer)(nil)
