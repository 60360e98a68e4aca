// Package llm реализует port.Provider поверх внешних моделей: OpenAI-совместимого
// API, Gemini и демо-режима без сети.
package llm

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"
)

const assessmentPlaceholder = "{{assessment}}"

// Prompts тексты запросов к моделям.
type Prompts struct {
	System     string
	Analysis   string
	Report     string // содержит {{assessment}}
	Disclaimer string // добавляется в конец каждого отчёта
}

func (p Prompts) report(assessment string) string {
	if !strings.Contains(p.Report, assessmentPlaceholder) {
		return p.Report + "\n\n" + assessment
	}
	return strings.ReplaceAll(p.Report, assessmentPlaceholder, assessment)
}

func (p Prompts) withDisclaimer(report string) string {
	if p.Disclaimer == "" {
		return report
	}
	return report + "\n\n---\n\n" + p.Disclaimer
}

// encodeJPEG готовит фото к отправке в модель.
func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
