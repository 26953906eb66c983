package console

import (
	"fmt"
	"strings"

	"plantops/cmd/plantops/ui"
	"plantops/internal/report"
)

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("plantops · renewable plant operations"))
	sb.WriteString("\n\n")

	switch m.viewMode {
	case ReportsView:
		sb.WriteString(m.viewReports())
	case CreateView:
		sb.WriteString(m.viewCreate())
	case PreviewView:
		sb.WriteString(m.viewPreview())
	case PlantsView:
		sb.WriteString(m.viewPlants())
	case DashboardView:
		sb.WriteString(m.viewDashboard())
	}

	sb.WriteString("\n")
	sb.WriteString(m.viewStatusLine())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Footer.Render(m.keyHints()))

	return sb.String()
}

// =============================================================================
// SCREENS
// =============================================================================

func (m Model) viewReports() string {
	if len(m.records) == 0 {
		return m.styles.Muted.Render("No reports yet. Press g to generate one.") + "\n"
	}

	table := ui.NewSimpleTable("Reports", []string{"Name", "Type", "Format", "Generated", "Size", "Status"})
	table.SelectedRow = m.cursor
	for i, rec := range m.records {
		table.AddRow(
			rec.Name,
			rec.Type,
			rec.Format,
			rec.GeneratedDate.Format("2006-01-02"),
			orDash(rec.SizeLabel),
			m.statusCell(rec),
		)
		if i != m.cursor {
			switch {
			case rec.Status == report.StatusGenerating:
				table.SetRowStyle(i, m.styles.Generating)
			case rec.PendingVerification:
				table.SetRowStyle(i, m.styles.Pending)
			}
		}
	}
	return table.View(m.styles)
}

func (m Model) statusCell(rec report.Record) string {
	if rec.Status == report.StatusGenerating {
		if m.busy {
			return m.spinner.View() + " Generating"
		}
		return "Generating"
	}
	if rec.PendingVerification {
		return "Ready (verification pending)"
	}
	return "Ready"
}

func (m Model) viewCreate() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Generate Report"))
	sb.WriteString("\n")

	rows := []struct {
		field createField
		label string
		value string
	}{
		{fieldType, "Type", report.Types()[m.create.typeIdx]},
		{fieldFormat, "Format", formatOptions[m.create.formatIdx]},
		{fieldPeriod, "Period", periodPresets[m.create.periodIdx].Label},
		{fieldCategory, "Plants", categoryOptions[m.create.categoryIdx]},
	}
	for _, r := range rows {
		marker := "  "
		line := fmt.Sprintf("%-8s ◂ %s ▸", r.label, r.value)
		if m.create.field == r.field {
			marker = m.styles.Success.Render("▶ ")
			line = m.styles.Bold.Render(line)
		} else {
			line = m.styles.Body.Render(line)
		}
		sb.WriteString("  " + marker + line + "\n")
	}

	sb.WriteString("\n  ")
	if m.create.field == fieldConfirm {
		sb.WriteString(m.styles.Badge.Render(" Generate "))
	} else {
		sb.WriteString(m.styles.Muted.Render(" Generate "))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) viewPreview() string {
	var sb strings.Builder
	title := m.preview.Title
	if !m.preview.Available {
		title += "  " + m.styles.Warning.Render("(preview not available)")
	}
	sb.WriteString(m.styles.Title.Render(title))
	sb.WriteString("\n")
	if m.ready {
		sb.WriteString(m.viewport.View())
	} else {
		sb.WriteString(m.preview.Markdown)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) viewPlants() string {
	if !m.plantsLoaded {
		return m.styles.Muted.Render("Loading plants...") + "\n"
	}
	if len(m.plants) == 0 {
		return m.styles.Muted.Render("No plants found.") + "\n"
	}

	table := ui.NewSimpleTable("Plants", []string{"Name", "Type", "Capacity (MW)", "State", "Status", "Efficiency"})
	table.SelectedRow = m.plantCursor
	for _, p := range m.plants {
		table.AddRow(
			p.Name,
			p.Type,
			fmt.Sprintf("%.1f", p.Capacity),
			p.State,
			p.Status,
			fmt.Sprintf("%.1f%%", p.Efficiency),
		)
	}
	return table.View(m.styles)
}

func (m Model) viewDashboard() string {
	if !m.statsLoaded {
		return m.styles.Muted.Render("Loading dashboard...") + "\n"
	}

	s := m.stats
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Fleet Dashboard"))
	sb.WriteString("\n")

	card := func(label, value string) string {
		return m.styles.Card.Render(m.styles.Muted.Render(label) + "\n" + m.styles.Bold.Render(value))
	}
	sb.WriteString(card("Active Plants", fmt.Sprintf("%d", s.ActivePlants)))
	sb.WriteString(" ")
	sb.WriteString(card("Total Capacity", fmt.Sprintf("%.1f MW", s.TotalCapacity)))
	sb.WriteString(" ")
	sb.WriteString(card("Generation", fmt.Sprintf("%.1f MW", s.CurrentGeneration)))
	sb.WriteString(" ")
	sb.WriteString(card("Efficiency", fmt.Sprintf("%.1f%%", s.Efficiency)))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Body.Render(fmt.Sprintf(
		"  Wind %.1f MW · Solar %.1f MW\n", s.WindCapacity, s.SolarCapacity)))
	sb.WriteString(m.styles.Body.Render(fmt.Sprintf(
		"  Schedules: %d total, %d pending, %d approved, %d revised\n",
		s.Schedules.Total, s.Schedules.Pending, s.Schedules.Approved, s.Schedules.Revised)))
	return sb.String()
}

// =============================================================================
// CHROME
// =============================================================================

func (m Model) viewStatusLine() string {
	if m.status == "" {
		return ""
	}
	switch m.statusKind {
	case statusOK:
		return "  " + m.styles.Success.Render(m.status)
	case statusWarn:
		return "  " + m.styles.Warning.Render(m.status)
	case statusBad:
		return "  " + m.styles.Error.Render(m.status)
	default:
		return "  " + m.styles.Muted.Render(m.status)
	}
}

func (m Model) keyHints() string {
	switch m.viewMode {
	case CreateView:
		return "↑/↓ field · ←/→ change · enter generate · q back"
	case PreviewView:
		return "↑/↓ scroll · d download · q back"
	case PlantsView:
		return "↑/↓ move · r refresh · q back"
	case DashboardView:
		return "r refresh · q back"
	default:
		return "g generate · enter view · d download · x remove · r refresh · p plants · s dashboard · q quit"
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
