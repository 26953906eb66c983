package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantops/internal/api"
	"plantops/internal/report"
)

func TestRefreshDonePopulatesRecords(t *testing.T) {
	backend := &stubBackend{listing: []report.Record{confirmedRecord(1, "from backend")}}
	m := newTestModel(backend, &stubAssembler{}, t.TempDir())

	require.NoError(t, m.ctrl.Refresh(m.rootCtx))
	m, _ = drive(m, refreshDoneMsg{})

	require.Len(t, m.records, 1)
	assert.Equal(t, "from backend", m.records[0].Name)
}

func TestGenerationFlowOptimisticThenPromoted(t *testing.T) {
	backend := &stubBackend{
		createResult: report.CreateResult{ReportID: 42, DownloadURL: "/files/r42.pdf"},
	}
	asm := &stubAssembler{artifact: report.Artifact{Path: "/tmp/r42.pdf", Size: 1024}}
	m := newTestModel(backend, asm, t.TempDir())

	// Walk the wizard to the confirm row and submit
	m.viewMode = CreateView
	m.create.field = fieldConfirm
	next, cmd := m.updateCreateKeys(keyMsg("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)

	// The optimistic record is visible before the async work settles
	assert.Equal(t, ReportsView, m.viewMode)
	require.Len(t, m.records, 1)
	assert.True(t, m.records[0].ID.IsProvisional())
	assert.Equal(t, report.StatusGenerating, m.records[0].Status)
	assert.True(t, m.busy)

	// Settle the generation
	out := m.ctrl.Finish(m.rootCtx, m.records[0], m.create.params(m.records[0].GeneratedDate))
	m, _ = drive(m, generationSettledMsg{outcome: out})

	assert.False(t, m.busy)
	require.Len(t, m.records, 1)
	assert.Equal(t, report.DurableID(42), m.records[0].ID)
	assert.Equal(t, report.StatusReady, m.records[0].Status)
	assert.NotNil(t, m.ctrl.ActivePoll(), "confirmation poll must be running after success")

	m.Shutdown()
}

func TestGenerationFailureClearsRecordAndReportsError(t *testing.T) {
	backend := &stubBackend{createErr: &api.Error{StatusCode: 500, Detail: "boom"}}
	asm := &stubAssembler{artifact: report.Artifact{Path: "/tmp/r.pdf", Size: 10}}
	m := newTestModel(backend, asm, t.TempDir())

	rec, err := m.ctrl.Begin(report.Params{Type: report.TypePerformance, Format: "PDF"})
	require.NoError(t, err)
	m.busy = true
	m.records = m.ctrl.Store().Snapshot()

	out := m.ctrl.Finish(m.rootCtx, rec, report.Params{Type: report.TypePerformance})
	m, _ = drive(m, generationSettledMsg{outcome: out})

	assert.Empty(t, m.records, "failed generation must leave no record behind")
	assert.Equal(t, statusBad, m.statusKind)
	assert.Contains(t, m.status, "Generation failed")
}

func TestPartialSuccessShowsPendingVerification(t *testing.T) {
	backend := &stubBackend{createResult: report.CreateResult{ReportID: 0}}
	asm := &stubAssembler{artifact: report.Artifact{Path: "/tmp/r.pdf", Size: 10}}
	m := newTestModel(backend, asm, t.TempDir())

	rec, err := m.ctrl.Begin(report.Params{Type: report.TypePerformance, Format: "PDF"})
	require.NoError(t, err)

	out := m.ctrl.Finish(m.rootCtx, rec, report.Params{Type: report.TypePerformance})
	m, _ = drive(m, generationSettledMsg{outcome: out})

	require.Len(t, m.records, 1)
	assert.True(t, m.records[0].PendingVerification)
	assert.Equal(t, statusWarn, m.statusKind)
	assert.Contains(t, m.status, "verification pending")
	assert.Nil(t, m.ctrl.ActivePoll(), "no poll without a durable identity")
}

func TestDeleteDuringGenerationSettlesQuietly(t *testing.T) {
	backend := &stubBackend{createResult: report.CreateResult{ReportID: 42}}
	asm := &stubAssembler{artifact: report.Artifact{Path: "/tmp/r.pdf", Size: 10}}
	m := newTestModel(backend, asm, t.TempDir())

	rec, err := m.ctrl.Begin(report.Params{Type: report.TypePerformance, Format: "PDF"})
	require.NoError(t, err)
	m.busy = true
	m.records = m.ctrl.Store().Snapshot()

	// Dismiss the generating record before the async work settles
	require.NoError(t, m.ctrl.Delete(m.rootCtx, rec.ID))
	m, _ = drive(m, deleteDoneMsg{id: rec.ID})

	out := m.ctrl.Finish(m.rootCtx, rec, report.Params{Type: report.TypePerformance})
	require.Equal(t, report.OutcomeCancelled, out.Kind)
	m, _ = drive(m, generationSettledMsg{outcome: out})

	assert.False(t, m.busy)
	assert.Empty(t, m.records, "dismissed record must not resurface")
	assert.NotContains(t, m.status, "Generation failed")
	assert.Equal(t, []int64{42}, backend.deleted, "orphaned backend row must be cleaned up")
}

func TestPollConfirmationStopsTickChain(t *testing.T) {
	backend := &stubBackend{}
	m := newTestModel(backend, &stubAssembler{}, t.TempDir())

	session := m.ctrl.StartPoll(42)

	// Miss: the chain continues
	m, cmd := drive(m, pollListingMsg{session: session, listing: nil})
	assert.NotNil(t, cmd, "active session must schedule the next tick")

	// Hit: the chain ends
	listing := []report.Record{{ID: report.DurableID(42), Status: report.StatusReady}}
	m, cmd = drive(m, pollListingMsg{session: session, listing: listing})
	assert.Nil(t, cmd)
	assert.Nil(t, m.ctrl.ActivePoll())
}

func TestPollTickIgnoresStaleSession(t *testing.T) {
	m := newTestModel(&stubBackend{}, &stubAssembler{}, t.TempDir())

	old := m.ctrl.StartPoll(1)
	m.ctrl.StartPoll(2)

	_, cmd := drive(m, pollTickMsg{session: old})
	assert.Nil(t, cmd, "a replaced session must not fetch")
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	backend := &stubBackend{listing: []report.Record{confirmedRecord(7, "target")}}
	m := newTestModel(backend, &stubAssembler{}, t.TempDir())
	require.NoError(t, m.ctrl.Refresh(m.rootCtx))
	m.records = m.ctrl.Store().Snapshot()

	// x arms the confirmation, nothing removed yet
	next, _ := m.updateReportsKeys(keyMsg("x"))
	m = next.(Model)
	require.NotNil(t, m.confirmDelete)
	assert.Equal(t, 1, m.ctrl.Store().Len())

	// n cancels
	m, _ = drive(m, keyMsg("n"))
	assert.Nil(t, m.confirmDelete)
	assert.Equal(t, 1, m.ctrl.Store().Len())

	// x then y removes
	next, _ = m.updateReportsKeys(keyMsg("x"))
	m = next.(Model)
	m, cmd := drive(m, keyMsg("y"))
	require.NotNil(t, cmd)
	msg := cmd()
	m, _ = drive(m, msg)
	assert.Empty(t, m.records)
}

func TestDeleteFailureShowsRestoredMessage(t *testing.T) {
	backend := &stubBackend{
		listing:   []report.Record{confirmedRecord(7, "target")},
		deleteErr: &api.Error{StatusCode: 403, Detail: "forbidden"},
	}
	m := newTestModel(backend, &stubAssembler{}, t.TempDir())
	require.NoError(t, m.ctrl.Refresh(m.rootCtx))
	m.records = m.ctrl.Store().Snapshot()

	next, cmd := m.startDelete(report.DurableID(7))
	m = next.(Model)
	require.NotNil(t, cmd)
	m, _ = drive(m, cmd())

	require.Len(t, m.records, 1, "failed backend delete restores the record")
	assert.Equal(t, statusBad, m.statusKind)
	assert.Contains(t, m.status, "restored")
}

func TestDownloadStillGeneratingRefused(t *testing.T) {
	m := newTestModel(&stubBackend{}, &stubAssembler{}, t.TempDir())
	rec, err := m.ctrl.Begin(report.Params{Type: report.TypePerformance, Format: "PDF"})
	require.NoError(t, err)
	m.records = m.ctrl.Store().Snapshot()

	next, cmd := m.startDownload(rec)
	m = next.(Model)
	assert.Nil(t, cmd, "no download command for a generating record")
	assert.Equal(t, statusWarn, m.statusKind)
	assert.Contains(t, m.status, "still generating")
}

func TestDownloadSuccessRecordsArtifact(t *testing.T) {
	backend := &stubBackend{listing: []report.Record{confirmedRecord(7, "target")}}
	m := newTestModel(backend, &stubAssembler{}, t.TempDir())
	require.NoError(t, m.ctrl.Refresh(m.rootCtx))
	m.records = m.ctrl.Store().Snapshot()

	next, cmd := m.startDownload(m.records[0])
	m = next.(Model)
	require.NotNil(t, cmd)
	m, _ = drive(m, cmd())

	assert.Equal(t, statusOK, m.statusKind)
	require.Len(t, m.records, 1)
	assert.NotEmpty(t, m.records[0].LocalArtifact)
}

func TestEscLeavesSecondaryViews(t *testing.T) {
	m := newTestModel(&stubBackend{}, &stubAssembler{}, t.TempDir())
	m.viewMode = PlantsView

	m, _ = drive(m, keyMsg("esc"))
	assert.Equal(t, ReportsView, m.viewMode)
}

func TestViewRendersGeneratingRow(t *testing.T) {
	m := newTestModel(&stubBackend{}, &stubAssembler{}, t.TempDir())
	_, err := m.ctrl.Begin(report.Params{Type: report.TypePerformance, Format: "PDF"})
	require.NoError(t, err)
	m.records = m.ctrl.Store().Snapshot()

	view := m.View()
	assert.True(t, strings.Contains(view, "Generating"), "view must show the in-flight state")
}
