package docgen

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// renderPDF lays the document out as a single-column A4 PDF.
func renderPDF(doc content, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, doc.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 7, doc.Subtitle, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, sec := range doc.Sections {
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 9, sec.Title, "", 1, "L", false, 0, "")

		colW := 190.0 / float64(len(sec.Headers))

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 235, 240)
		for _, h := range sec.Headers {
			pdf.CellFormat(colW, 7, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, row := range sec.Rows {
			for _, cell := range row {
				pdf.CellFormat(colW, 6, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(5)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
