package heuristics

import (
	"strconv"
	"strings"
	"unicode"

	"face-assess-bot/internal/domain/entity"
	"face-assess-bot/internal/domain/port"
)

// Сколько первых символов строки проверяется на наличие цифры.
const numberedPrefixLen = 5

type sectionState int

const (
	outside sectionState = iota
	inside
)

// TreatmentParser находит нумерованный список процедур внутри раздела
// рекомендаций отчёта.
type TreatmentParser struct {
	rb *Rulebook
}

// NewTreatmentParser создаёт парсер по словарю.
func NewTreatmentParser(rb *Rulebook) *TreatmentParser {
	return &TreatmentParser{rb: rb}
}

// Parse никогда не возвращает пустой список: если ничего не найдено,
// используется запасной список из словаря.
//
// Раздел открывается строкой со стартовым шаблоном и закрывается
// ненумерованной строкой с завершающим шаблоном; после закрытия разбор
// прекращается.
func (p *TreatmentParser) Parse(report string) []entity.TreatmentEntry {
	var (
		entries []entity.TreatmentEntry
		state   = outside
	)

	for _, line := range strings.Split(report, "\n") {
		lower := strings.ToLower(line)

		if state != inside {
			if containsAnyFold(lower, p.rb.Treatments.Start) {
				state = inside
			}
			continue
		}

		// Внутри раздела нумерованная строка всегда пункт списка, даже если
		// в пояснении встречается слово из завершающего шаблона
		if !hasDigitPrefix(line) {
			if !containsAnyFold(lower, p.rb.Treatments.Start) && containsAnyFold(lower, p.rb.Treatments.End) {
				break
			}
			continue
		}
		if entry, ok := parseNumberedLine(line); ok {
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return p.Fallback()
	}
	return entries
}

// Fallback демонстрационный список с рангами 1..n.
func (p *TreatmentParser) Fallback() []entity.TreatmentEntry {
	out := make([]entity.TreatmentEntry, 0, len(p.rb.Treatments.Fallback))
	for i, name := range p.rb.Treatments.Fallback {
		out = append(out, entity.TreatmentEntry{Name: name, PriorityRank: i + 1})
	}
	return out
}

// parseNumberedLine берёт ранг из цифр до первой точки, а название из текста
// между первой и второй точкой до двоеточия.
func parseNumberedLine(line string) (entity.TreatmentEntry, bool) {
	parts := strings.Split(line, ".")
	if len(parts) < 2 {
		return entity.TreatmentEntry{}, false
	}

	rank, ok := digitsValue(parts[0])
	if !ok || rank < 1 {
		return entity.TreatmentEntry{}, false
	}

	name := parts[1]
	if i := strings.IndexAny(name, "：:"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.TreatmentEntry{}, false
	}

	return entity.TreatmentEntry{Name: name, PriorityRank: rank}, true
}

func hasDigitPrefix(line string) bool {
	n := 0
	for _, r := range line {
		if n == numberedPrefixLen {
			break
		}
		if unicode.IsDigit(r) {
			return true
		}
		n++
	}
	return false
}

// digitsValue собирает все цифры строки в одно число. Полноширинные цифры
// приводятся к ASCII.
func digitsValue(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '０' && r <= '９':
			b.WriteRune('0' + (r - '０'))
		case unicode.IsDigit(r):
			return 0, false
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsAnyFold(lower string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

var _ port.TreatmentParser = (*TreatmentParser)(nil)
