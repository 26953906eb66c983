package api

import (
	"context"
	"time"

	"plantops/internal/report"
)

// ReportBackend adapts the HTTP client to the report engine's Backend
// contract, converting wire rows into report records.
type ReportBackend struct {
	client *Client
}

// NewReportBackend wraps a client as a report.Backend.
func NewReportBackend(c *Client) *ReportBackend {
	return &ReportBackend{client: c}
}

// ListReports implements report.Backend.
func (b *ReportBackend) ListReports(ctx context.Context) ([]report.Record, error) {
	rows, err := b.client.ListReports(ctx, ReportFilter{})
	if err != nil {
		return nil, err
	}
	records := make([]report.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, RecordFromWire(row))
	}
	return records, nil
}

// CreateReport implements report.Backend.
func (b *ReportBackend) CreateReport(ctx context.Context, cfg report.CreateConfig) (report.CreateResult, error) {
	created, err := b.client.CreateReport(ctx, CreateReportRequest{
		Name:          cfg.Name,
		Type:          cfg.Type,
		Format:        cfg.Format,
		GeneratedDate: cfg.GeneratedDate.Format("2006-01-02"),
		Size:          cfg.SizeLabel,
		Status:        cfg.Status,
	})
	if err != nil {
		return report.CreateResult{}, err
	}
	return report.CreateResult{
		ReportID:    created.ID,
		DownloadURL: created.FilePath,
	}, nil
}

// DeleteReport implements report.Backend.
func (b *ReportBackend) DeleteReport(ctx context.Context, id int64) error {
	return b.client.DeleteReport(ctx, id)
}

// RecordFromWire converts one backend report row into a confirmed store
// record.
func RecordFromWire(row Report) report.Record {
	rec := report.Record{
		ID:        report.DurableID(row.ID),
		Name:      row.Name,
		Type:      row.Type,
		Format:    row.Format,
		SizeLabel: row.Size,
		FilePath:  row.FilePath,
		Origin:    report.OriginConfirmed,
		Status:    report.StatusReady,
	}
	if row.Status == "Generating" {
		rec.Status = report.StatusGenerating
	}
	if t, err := time.Parse("2006-01-02", row.GeneratedDate); err == nil {
		rec.GeneratedDate = t
		rec.SortKey = t
	}
	if t, err := time.Parse(time.RFC3339, row.CreatedAt); err == nil {
		rec.SortKey = t
	}
	return rec
}
