// Package docgen is the document assembler: it builds downloadable report
// artifacts (PDF, Excel, CSV) from report parameters and aggregated plant,
// schedule and deviation data. Assembly is synchronous and pure given its
// inputs; it performs no state reconciliation.
package docgen

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"plantops/internal/api"
	"plantops/internal/logging"
	"plantops/internal/report"
)

// DataProvider supplies the domain data a report aggregates. Satisfied by
// the API client and by the deterministic mock generator.
type DataProvider interface {
	ListPlants(ctx context.Context, f api.PlantFilter) ([]api.Plant, error)
	ListSchedules(ctx context.Context) ([]api.Schedule, error)
	ListDeviations(ctx context.Context) ([]api.Deviation, error)
}

// Assembler builds report artifacts into an output directory.
type Assembler struct {
	provider DataProvider
	outDir   string
}

// NewAssembler creates an assembler writing artifacts under outDir.
func NewAssembler(provider DataProvider, outDir string) *Assembler {
	return &Assembler{provider: provider, outDir: outDir}
}

// content is the format-independent document: a header plus one or more
// titled tables. Each format renderer lays the same content out.
type content struct {
	Title    string
	Subtitle string
	Sections []section
}

type section struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Assemble implements report.Assembler. It aggregates the data the report
// type calls for, renders it in the requested format, and writes the
// artifact with the deterministic filename
// {type}-report-{dateFrom}-to-{dateTo}.{ext}.
func (a *Assembler) Assemble(ctx context.Context, p report.Params) (report.Artifact, error) {
	doc, err := a.build(ctx, p)
	if err != nil {
		return report.Artifact{}, err
	}

	if err := os.MkdirAll(a.outDir, 0755); err != nil {
		return report.Artifact{}, fmt.Errorf("create artifact dir: %w", err)
	}
	path := filepath.Join(a.outDir, artifactFileName(p))

	switch strings.ToLower(p.Format) {
	case "pdf", "":
		err = renderPDF(doc, path)
	case "excel", "xlsx":
		err = renderExcel(doc, path)
	case "csv":
		err = renderCSV(doc, path)
	default:
		return report.Artifact{}, fmt.Errorf("unsupported report format %q", p.Format)
	}
	if err != nil {
		logging.DocgenError("assemble %s: %v", path, err)
		return report.Artifact{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return report.Artifact{}, fmt.Errorf("stat artifact: %w", err)
	}
	logging.Docgen("assembled %s (%d bytes)", path, info.Size())
	return report.Artifact{Path: path, Size: info.Size()}, nil
}

// artifactFileName derives the deterministic artifact name.
func artifactFileName(p report.Params) string {
	slug := strings.ToLower(strings.ReplaceAll(p.Type, " ", "-"))
	ext := strings.ToLower(p.Format)
	switch ext {
	case "excel":
		ext = "xlsx"
	case "":
		ext = "pdf"
	}
	return fmt.Sprintf("%s-report-%s-to-%s.%s",
		slug, p.DateFrom.Format("2006-01-02"), p.DateTo.Format("2006-01-02"), ext)
}

// build aggregates the data for the requested report type.
func (a *Assembler) build(ctx context.Context, p report.Params) (content, error) {
	doc := content{
		Title: p.Type + " Report",
		Subtitle: fmt.Sprintf("%s to %s", p.DateFrom.Format("2006-01-02"),
			p.DateTo.Format("2006-01-02")),
	}

	switch p.Type {
	case report.TypePerformance:
		plants, err := a.provider.ListPlants(ctx, api.PlantFilter{Type: p.Category, State: p.State})
		if err != nil {
			return content{}, fmt.Errorf("fetch plants: %w", err)
		}
		doc.Sections = append(doc.Sections, plantSection(plants))

	case report.TypeSchedule:
		schedules, err := a.provider.ListSchedules(ctx)
		if err != nil {
			return content{}, fmt.Errorf("fetch schedules: %w", err)
		}
		doc.Sections = append(doc.Sections, scheduleSection(schedules))

	case report.TypeDeviationAnalysis:
		deviations, err := a.provider.ListDeviations(ctx)
		if err != nil {
			return content{}, fmt.Errorf("fetch deviations: %w", err)
		}
		doc.Sections = append(doc.Sections, deviationSection(deviations))

	case report.TypeForecastAccuracy:
		deviations, err := a.provider.ListDeviations(ctx)
		if err != nil {
			return content{}, fmt.Errorf("fetch deviations: %w", err)
		}
		doc.Sections = append(doc.Sections, accuracySection(deviations), deviationSection(deviations))

	default:
		return content{}, fmt.Errorf("unsupported report type %q", p.Type)
	}

	return doc, nil
}

func plantSection(plants []api.Plant) section {
	s := section{
		Title:   "Plant Performance",
		Headers: []string{"Plant", "Type", "State", "Capacity (MW)", "Efficiency (%)", "Status"},
	}
	for _, p := range plants {
		s.Rows = append(s.Rows, []string{
			p.Name, p.Type, p.State,
			fmt.Sprintf("%.1f", p.Capacity),
			fmt.Sprintf("%.1f", p.Efficiency),
			p.Status,
		})
	}
	return s
}

func scheduleSection(schedules []api.Schedule) section {
	s := section{
		Title:   "Generation Schedules",
		Headers: []string{"Plant", "Type", "Forecast (MW)", "Actual (MW)", "Deviation (%)", "Status"},
	}
	for _, sch := range schedules {
		s.Rows = append(s.Rows, []string{
			sch.PlantName, sch.Type,
			fmt.Sprintf("%.1f", sch.Forecasted),
			fmt.Sprintf("%.1f", sch.Actual),
			fmt.Sprintf("%.1f", sch.Deviation),
			sch.Status,
		})
	}
	return s
}

func deviationSection(deviations []api.Deviation) section {
	s := section{
		Title:   "Hourly Deviations",
		Headers: []string{"Hour", "Forecast (MW)", "Actual (MW)", "Deviation (%)"},
	}
	for _, d := range deviations {
		s.Rows = append(s.Rows, []string{
			fmt.Sprintf("%02d:00", d.Hour),
			fmt.Sprintf("%.1f", d.Forecasted),
			fmt.Sprintf("%.1f", d.Actual),
			fmt.Sprintf("%.1f", d.Deviation),
		})
	}
	return s
}

func accuracySection(deviations []api.Deviation) section {
	var sum, n float64
	for _, d := range deviations {
		if d.Forecasted > 1 {
			sum += math.Abs(d.Deviation)
			n++
		}
	}
	mad := 0.0
	if n > 0 {
		mad = sum / n
	}
	return section{
		Title:   "Forecast Accuracy Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Hours sampled", fmt.Sprintf("%.0f", n)},
			{"Mean absolute deviation", fmt.Sprintf("%.1f %%", mad)},
			{"Accuracy", fmt.Sprintf("%.1f %%", math.Max(0, 100-mad))},
		},
	}
}
