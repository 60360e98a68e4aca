package document

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"face-assess-bot/internal/domain/entity"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.ParseFS(templates, "templates/report.html.tmpl"))

// HTMLRenderer собирает самодостаточный HTML: диаграммы встроены как data URI,
// текст отчёта переводится из Markdown.
type HTMLRenderer struct {
	text Text
	md   goldmark.Markdown
}

// NewHTMLRenderer создаёт рендер HTML-документа.
func NewHTMLRenderer(text Text) *HTMLRenderer {
	return &HTMLRenderer{
		text: text,
		md:   goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
}

type htmlFigure struct {
	Caption string
	Src     template.URL
}

type htmlView struct {
	Text    Text
	Date    string
	Model   string
	Number  string
	Year    int
	Figures []htmlFigure
	Report  template.HTML
}

func (r *HTMLRenderer) Format() entity.DocumentFormat {
	return entity.FormatHTML
}

// Render строит HTML-документ для оценки.
func (r *HTMLRenderer) Render(a *entity.Assessment) (*entity.Document, error) {
	// goldmark без WithUnsafe экранирует сырой HTML из ответа модели
	var report bytes.Buffer
	if err := r.md.Convert([]byte(a.ReportText), &report); err != nil {
		return nil, fmt.Errorf("convert report markdown: %w", err)
	}

	view := htmlView{
		Text:   r.text,
		Date:   a.CreatedAt.Format("2006-01-02"),
		Model:  a.Model,
		Number: a.ReportNumber(),
		Year:   a.CreatedAt.Year(),
		Report: template.HTML(report.String()),
	}
	for _, f := range figures(a, r.text) {
		hf := htmlFigure{Caption: f.Caption}
		if len(f.Data) > 0 {
			hf.Src = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(f.Data))
		}
		view.Figures = append(view.Figures, hf)
	}

	var out bytes.Buffer
	if err := reportTemplate.Execute(&out, view); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}

	return &entity.Document{
		Format:   entity.FormatHTML,
		Name:     fileName(a, entity.FormatHTML),
		MIMEType: "text/html; charset=utf-8",
		Data:     out.Bytes(),
	}, nil
}
