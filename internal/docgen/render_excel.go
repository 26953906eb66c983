package docgen

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// renderExcel lays the document out as one worksheet per section.
func renderExcel(doc content, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DCE6F1"}},
	})
	if err != nil {
		return fmt.Errorf("excel style: %w", err)
	}

	for i, sec := range doc.Sections {
		sheet := sheetName(sec.Title)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("add sheet: %w", err)
			}
		}

		_ = f.SetCellValue(sheet, "A1", doc.Title)
		_ = f.SetCellValue(sheet, "A2", doc.Subtitle)

		headerRow := 4
		for col, h := range sec.Headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
			_ = f.SetCellValue(sheet, cell, h)
			_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		for r, row := range sec.Rows {
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, headerRow+1+r)
				_ = f.SetCellValue(sheet, cell, v)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write excel: %w", err)
	}
	return nil
}

// sheetName trims a section title to Excel's 31-character sheet limit.
func sheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
