package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

const pdfFontFamily = "ShoppingListFont"

// PDFRenderer dùng core font Helvetica (cp1252) hoặc font TTF UTF-8 nếu có fontPath
// (cần cho tên nguyên liệu ngoài bảng Latin)
type PDFRenderer struct {
	fontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	if fontPath == "" {
		log.Warn().Msg("PDF font path not configured, characters outside cp1252 will render as '?'")
	}
	return &PDFRenderer{fontPath: fontPath}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

func (r *PDFRenderer) Extension() string { return "pdf" }

func (r *PDFRenderer) Render(title string, rows []Row) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 20)

	family := "Helvetica"
	cp1252 := pdf.UnicodeTranslatorFromDescriptor("")
	replaced := 0
	tr := func(s string) string {
		s, n := latinFallback(s)
		replaced += n
		return cp1252(s)
	}
	if r.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", r.fontPath)
		family = pdfFontFamily
		tr = func(s string) string { return s }
	}

	pdf.AddPage()

	// Tiêu đề
	pdf.SetFont(family, "", 22)
	pdf.CellFormat(0, 14, tr(title+":"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Mỗi nguyên liệu một dòng
	pdf.SetFont(family, "", 13)
	for _, row := range rows {
		pdf.CellFormat(0, 9, tr("-  "+row.String()), "", 1, "L", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	if replaced > 0 {
		log.Warn().
			Int("replaced", replaced).
			Msg("PDF rendered with core font, unsupported characters replaced")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// latinFallback thay rune không có trong cp1252 bằng '?'
// (translator của fpdf bỏ qua chúng mà không báo)
func latinFallback(s string) (string, int) {
	n := 0
	out := strings.Map(func(r rune) rune {
		if _, ok := charmap.Windows1252.EncodeRune(r); ok {
			return r
		}
		n++
		return '?'
	}, s)
	return out, n
}
