package docgen

import (
	"encoding/csv"
	"fmt"
	"os"
)

// renderCSV writes the document as one flat CSV stream, sections separated
// by a blank row.
func renderCSV(doc content, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{doc.Title})
	_ = w.Write([]string{doc.Subtitle})

	for _, sec := range doc.Sections {
		_ = w.Write(nil)
		_ = w.Write([]string{sec.Title})
		_ = w.Write(sec.Headers)
		for _, row := range sec.Rows {
			_ = w.Write(row)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
