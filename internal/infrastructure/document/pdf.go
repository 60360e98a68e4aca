package document

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"face-assess-bot/internal/domain/entity"
)

const (
	pdfFontFamily = "report"
	pageWidth     = 210.0
	pageMargin    = 10.0
	figureWidth   = 150.0
	lineHeight    = 5.5
)

// PDFRenderer собирает отчёт в PDF формата A4.
// Без файла TTF используется встроенный Helvetica с кодировкой cp1252,
// поэтому для китайского словаря нужен PDF_FONT_FILE.
type PDFRenderer struct {
	text     Text
	fontFile string
}

// NewPDFRenderer создаёт рендер PDF. fontFile может быть пустым.
func NewPDFRenderer(text Text, fontFile string) *PDFRenderer {
	return &PDFRenderer{text: text, fontFile: fontFile}
}

func (r *PDFRenderer) Format() entity.DocumentFormat {
	return entity.FormatPDF
}

// Render строит PDF-документ для оценки.
func (r *PDFRenderer) Render(a *entity.Assessment) (*entity.Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)

	w := &pdfWriter{pdf: pdf, tr: func(s string) string { return s }}
	if r.fontFile != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", r.fontFile)
		w.family, w.utf8 = pdfFontFamily, true
	} else {
		w.family = "Helvetica"
		w.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		w.font("", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, w.tr(fmt.Sprintf("© %d %s", a.CreatedAt.Year(), r.text.Footer)), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Заголовок и метаданные
	w.font("B", 18)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 12, w.tr(r.text.Title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	w.font("", 10)
	pdf.SetTextColor(51, 51, 51)
	for _, row := range [][2]string{
		{r.text.DateLabel, a.CreatedAt.Format("2006-01-02")},
		{r.text.ModelLabel, a.Model},
		{r.text.NumberLabel, a.ReportNumber()},
	} {
		pdf.CellFormat(0, lineHeight+1, w.tr(row[0]+": "+row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Диаграммы
	w.heading(r.text.VisualsHeading)
	for _, f := range figures(a, r.text) {
		if len(f.Data) == 0 {
			w.font("", 10)
			pdf.SetTextColor(153, 153, 153)
			pdf.CellFormat(0, 12, w.tr(f.Caption+": "+r.text.Unavailable), "1", 1, "C", false, 0, "")
			pdf.Ln(3)
			continue
		}

		name := string(f.Kind)
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(f.Data))
		pdf.ImageOptions(name, (pageWidth-figureWidth)/2, pdf.GetY(), figureWidth, 0, true, opts, 0, "")

		w.font("", 9)
		pdf.SetTextColor(102, 102, 102)
		pdf.CellFormat(0, lineHeight, w.tr(f.Caption), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	// Текст отчёта
	pdf.AddPage()
	w.heading(r.text.ResultHeading)
	w.markdown(a.ReportText)

	// Дисклеймер
	pdf.Ln(6)
	w.font("", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.SetFillColor(248, 249, 250)
	pdf.MultiCell(0, lineHeight, w.tr(r.text.Disclaimer), "", "L", true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	return &entity.Document{
		Format:   entity.FormatPDF,
		Name:     fileName(a, entity.FormatPDF),
		MIMEType: "application/pdf",
		Data:     buf.Bytes(),
	}, nil
}

// pdfWriter держит выбранный шрифт и перекодировку строк.
type pdfWriter struct {
	pdf    *fpdf.Fpdf
	family string
	utf8   bool
	tr     func(string) string
}

// font выбирает начертание; у TTF-шрифта есть только обычное.
func (w *pdfWriter) font(style string, size float64) {
	if w.utf8 {
		style = ""
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *pdfWriter) heading(text string) {
	w.font("B", 14)
	w.pdf.SetTextColor(44, 62, 80)
	w.pdf.CellFormat(0, 9, w.tr(text), "", 1, "L", false, 0, "")
	w.pdf.Ln(1)
}

// markdown выводит отчёт построчно: заголовки «#» жирным, маркеры «**» убираются.
func (w *pdfWriter) markdown(text string) {
	w.pdf.SetTextColor(51, 51, 51)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			w.pdf.Ln(lineHeight / 2)
		case trimmed == "---":
			y := w.pdf.GetY() + lineHeight/2
			w.pdf.Line(pageMargin, y, pageWidth-pageMargin, y)
			w.pdf.Ln(lineHeight)
		case strings.HasPrefix(trimmed, "#"):
			w.font("B", 12)
			w.pdf.MultiCell(0, lineHeight+1, w.tr(strings.TrimSpace(strings.TrimLeft(trimmed, "#"))), "", "L", false)
		default:
			w.font("", 10)
			w.pdf.MultiCell(0, lineHeight, w.tr(strings.ReplaceAll(trimmed, "**", "")), "", "L", false)
		}
	}
}
