// Package heuristics превращает свободный текст оценки и отчёта в данные
// для диаграмм: выраженность по зонам, оценки категорий и список процедур.
// Все правила сводятся к поиску подстрок из словаря Rulebook, без токенизации.
package heuristics

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"face-assess-bot/internal/domain/entity"
)

//go:embed rules/*.yaml
var builtinRules embed.FS

// DefaultLocale словарь по умолчанию.
const DefaultLocale = "en"

const maxRulesPerCategory = 3

// RegionRule ключевые слова и прямоугольник одной зоны.
type RegionRule struct {
	Name      string        `yaml:"name"`
	Label     string        `yaml:"label"`
	Keywords  []string      `yaml:"keywords"`
	Bounds    entity.Bounds `yaml:"bounds"`
	Base      float64       `yaml:"base"`
	Escalated float64       `yaml:"escalated"`
	Intensity []string      `yaml:"intensity"` // если пусто, берётся общий список
}

// Deduction снижение оценки при наличии ключевого слова.
type Deduction struct {
	Keyword   string  `yaml:"keyword"`
	Deduction float64 `yaml:"deduction"`
}

// CategoryRule правила одной оси радарной диаграммы.
type CategoryRule struct {
	Name  string      `yaml:"name"`
	Label string      `yaml:"label"`
	Rules []Deduction `yaml:"rules"`
}

// TreatmentRules шаблоны раздела рекомендаций.
type TreatmentRules struct {
	Start    []string `yaml:"start"`
	End      []string `yaml:"end"`
	Fallback []string `yaml:"fallback"` // по порядку приоритета, ранги 1..n
}

// ChartText подписи диаграмм.
type ChartText struct {
	HeatmapTitle  string `yaml:"heatmap_title"`
	RadarTitle    string `yaml:"radar_title"`
	PriorityTitle string `yaml:"priority_title"`
	PriorityX     string `yaml:"priority_x"`
	PriorityY     string `yaml:"priority_y"`
}

// DocumentText подписи итогового документа.
type DocumentText struct {
	Title          string `yaml:"title"`
	DateLabel      string `yaml:"date_label"`
	ModelLabel     string `yaml:"model_label"`
	NumberLabel    string `yaml:"number_label"`
	VisualsHeading string `yaml:"visuals_heading"`
	ResultHeading  string `yaml:"result_heading"`
	Unavailable    string `yaml:"unavailable"`
	Footer         string `yaml:"footer"`
	Disclaimer     string `yaml:"disclaimer"`
}

// Prompts запросы к моделям.
type Prompts struct {
	System     string `yaml:"system"`
	Analysis   string `yaml:"analysis"`
	Report     string `yaml:"report"` // {{assessment}} заменяется текстом оценки
	Disclaimer string `yaml:"disclaimer"`
}

// DemoTexts ответы демо-провайдера.
type DemoTexts struct {
	Assessment string `yaml:"assessment"`
	Report     string `yaml:"report"`
}

// Rulebook словарь правил для одного языка.
type Rulebook struct {
	Locale     string         `yaml:"locale"`
	Intensity  []string       `yaml:"intensity"`
	Regions    []RegionRule   `yaml:"regions"`
	Categories []CategoryRule `yaml:"categories"`
	Treatments TreatmentRules `yaml:"treatments"`
	Charts     ChartText      `yaml:"charts"`
	Document   DocumentText   `yaml:"document"`
	Prompts    Prompts        `yaml:"prompts"`
	Demo       DemoTexts      `yaml:"demo"`
}

// LoadRulebook загружает встроенный словарь для locale.
func LoadRulebook(locale string) (*Rulebook, error) {
	if locale == "" {
		locale = DefaultLocale
	}
	data, err := builtinRules.ReadFile("rules/" + locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown rules locale %q", locale)
	}
	return ParseRulebook(data)
}

// LoadRulebookFile загружает словарь из файла.
func LoadRulebookFile(path string) (*Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRulebook(data)
}

// ParseRulebook разбирает и проверяет YAML словаря.
func ParseRulebook(data []byte) (*Rulebook, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	rb := &Rulebook{}
	if err := dec.Decode(rb); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if err := rb.Validate(); err != nil {
		return nil, fmt.Errorf("rules %q: %w", rb.Locale, err)
	}
	return rb, nil
}

// Validate проверяет полноту словаря: шесть зон и шесть категорий в
// фиксированном порядке, корректные границы и значения.
func (rb *Rulebook) Validate() error {
	if len(rb.Regions) != len(entity.RegionOrder) {
		return fmt.Errorf("expected %d regions, got %d", len(entity.RegionOrder), len(rb.Regions))
	}
	for i, r := range rb.Regions {
		if r.Name != entity.RegionOrder[i] {
			return fmt.Errorf("region %d: expected %q, got %q", i, entity.RegionOrder[i], r.Name)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("region %s: no keywords", r.Name)
		}
		if err := r.Bounds.Validate(); err != nil {
			return fmt.Errorf("region %s: %w", r.Name, err)
		}
		if r.Base <= 0 || r.Escalated > 1 || r.Base > r.Escalated {
			return fmt.Errorf("region %s: severities must satisfy 0 < base <= escalated <= 1", r.Name)
		}
	}

	if len(rb.Categories) != len(entity.CategoryOrder) {
		return fmt.Errorf("expected %d categories, got %d", len(entity.CategoryOrder), len(rb.Categories))
	}
	for i, c := range rb.Categories {
		if c.Name != entity.CategoryOrder[i] {
			return fmt.Errorf("category %d: expected %q, got %q", i, entity.CategoryOrder[i], c.Name)
		}
		if len(c.Rules) == 0 || len(c.Rules) > maxRulesPerCategory {
			return fmt.Errorf("category %s: expected 1..%d rules, got %d", c.Name, maxRulesPerCategory, len(c.Rules))
		}
		for _, d := range c.Rules {
			if d.Keyword == "" || d.Deduction < 0 {
				return fmt.Errorf("category %s: invalid rule %+v", c.Name, d)
			}
		}
	}

	if len(rb.Treatments.Start) == 0 || len(rb.Treatments.End) == 0 {
		return errors.New("treatment section patterns are required")
	}
	if len(rb.Treatments.Fallback) == 0 {
		return errors.New("treatment fallback list is empty")
	}
	return nil
}

// RegionList возвращает зоны для рендера тепловой карты.
func (rb *Rulebook) RegionList() []entity.Region {
	out := make([]entity.Region, 0, len(rb.Regions))
	for _, r := range rb.Regions {
		out = append(out, entity.Region{Name: r.Name, Label: r.Label, Bounds: r.Bounds})
	}
	return out
}
