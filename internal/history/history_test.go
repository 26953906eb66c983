package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantops/internal/report"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func confirmed(id int64, name string) report.Record {
	return report.Record{
		ID:            report.DurableID(id),
		Name:          name,
		Type:          report.TypePerformance,
		Format:        "PDF",
		GeneratedDate: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		SizeLabel:     "2.0 KB",
		FilePath:      "/files/r.pdf",
		Status:        report.StatusReady,
		Origin:        report.OriginConfirmed,
	}
}

func TestRecordAndListConfirmed(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.RecordConfirmed(confirmed(1, "first")))
	require.NoError(t, s.RecordConfirmed(confirmed(2, "second")))

	listed, err := s.ListConfirmed()
	require.NoError(t, err)
	require.Len(t, listed, 2)

	got := listed[0]
	if got.Name != "second" {
		// recorded_at granularity can tie; accept either order but both
		// names must be present
		assert.Equal(t, "first", got.Name)
	}
	for _, rec := range listed {
		assert.Equal(t, report.StatusReady, rec.Status)
		assert.Equal(t, report.OriginConfirmed, rec.Origin)
	}
}

func TestRecordConfirmedUpserts(t *testing.T) {
	s := newTestStore(t)

	rec := confirmed(1, "r")
	require.NoError(t, s.RecordConfirmed(rec))

	rec.SizeLabel = "4.0 KB"
	rec.FilePath = "/files/r-v2.pdf"
	require.NoError(t, s.RecordConfirmed(rec))

	listed, err := s.ListConfirmed()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "4.0 KB", listed[0].SizeLabel)
	assert.Equal(t, "/files/r-v2.pdf", listed[0].FilePath)
}

func TestRecordConfirmedIgnoresProvisional(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordConfirmed(report.Record{
		ID:   report.NewProvisionalID(),
		Name: "in flight",
	}))
	listed, err := s.ListConfirmed()
	require.NoError(t, err)
	assert.Empty(t, listed, "optimistic records never enter the journal")
}

func TestForget(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordConfirmed(confirmed(1, "r")))
	require.NoError(t, s.Forget(1))

	listed, err := s.ListConfirmed()
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRecordDownload(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.RecordConfirmed(confirmed(1, "r")))
	require.NoError(t, s.RecordDownload(1, "/tmp/downloads/r.pdf"))
}
