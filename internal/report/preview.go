package report

import (
	"fmt"
	"strings"
)

// Preview is the renderable preview state for one record. When no durable
// file pointer exists the preview is explicitly unavailable - the UI shows a
// distinct placeholder rather than anything resembling a real document.
type Preview struct {
	Available bool
	Title     string
	Markdown  string
}

// PreviewFor builds the preview for a record. A record still generating, or
// one with no durable file pointer, yields the explicit unavailable state.
func PreviewFor(rec Record) Preview {
	if rec.Status == StatusGenerating || rec.FilePath == "" {
		return Preview{
			Available: false,
			Title:     rec.Name,
			Markdown:  unavailableMarkdown(rec),
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", rec.Name)
	fmt.Fprintf(&sb, "| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Type | %s |\n", rec.Type)
	fmt.Fprintf(&sb, "| Format | %s |\n", rec.Format)
	fmt.Fprintf(&sb, "| Generated | %s |\n", rec.GeneratedDate.Format("2006-01-02"))
	if rec.SizeLabel != "" {
		fmt.Fprintf(&sb, "| Size | %s |\n", rec.SizeLabel)
	}
	fmt.Fprintf(&sb, "| File | `%s` |\n", rec.FilePath)
	if rec.LocalArtifact != "" {
		fmt.Fprintf(&sb, "| Local copy | `%s` |\n", rec.LocalArtifact)
	}
	sb.WriteString("\nPress `d` to download the full document.\n")

	return Preview{Available: true, Title: rec.Name, Markdown: sb.String()}
}

func unavailableMarkdown(rec Record) string {
	reason := "No file is available for this report."
	if rec.Status == StatusGenerating {
		reason = "This report is still generating."
	}
	return fmt.Sprintf("# %s\n\n**Preview not available.** %s\n", rec.Name, reason)
}
