package shoppinglist

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// Document is what gets rendered: a title, a timestamp and a table whose
// first row is the header.
type Document struct {
	Title       string
	GeneratedAt time.Time
	Rows        [][]string
}

var columnWidths = []float64{100, 40, 40}

// PDFRenderer lays a Document out on A4. With a TTF font path the text is
// rendered as UTF-8; otherwise the core Helvetica font is used and text is
// translated to cp1252.
type PDFRenderer struct {
	fontPath string
}

func NewPDFRenderer(fontPath string) *PDFRenderer {
	return &PDFRenderer{fontPath: fontPath}
}

func (r *PDFRenderer) Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("foodgram", true)
	pdf.SetCreationDate(doc.GeneratedAt)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if r.fontPath != "" {
		pdf.AddUTF8Font("body", "", r.fontPath)
		family = "body"
		tr = func(s string) string { return s }
	}

	pdf.AddPage()
	pdf.SetFont(family, "", 18)
	pdf.CellFormat(0, 12, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(family, "", 10)
	pdf.CellFormat(0, 8, tr("Generated: "+doc.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(family, "", 12)
	pdf.SetFillColor(230, 230, 230)
	for i, row := range doc.Rows {
		for j, cell := range row {
			if j >= len(columnWidths) {
				break
			}
			align := "L"
			if j == len(columnWidths)-1 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[j], 8, tr(cell), "1", 0, align, i == 0, 0, "")
		}
		pdf.Ln(-1)
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}
