package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedRecord(id int64, name string, sortKey time.Time) Record {
	return Record{
		ID:            DurableID(id),
		Name:          name,
		Type:          TypePerformance,
		Format:        "PDF",
		GeneratedDate: sortKey,
		Status:        StatusReady,
		Origin:        OriginConfirmed,
		SortKey:       sortKey,
	}
}

func TestInsertHeadRejectsDuplicateIdentity(t *testing.T) {
	s := NewStore()
	rec := confirmedRecord(1, "A", time.Now())
	require.NoError(t, s.InsertHead(rec))
	err := s.InsertHead(rec)
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestInsertHeadPlacesNewestFirst(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertHead(confirmedRecord(1, "old", time.Now().Add(-time.Hour))))
	require.NoError(t, s.InsertHead(confirmedRecord(2, "new", time.Now())))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "new", snap[0].Name)
	assert.Equal(t, "old", snap[1].Name)
}

func TestPromoteRewritesInPlace(t *testing.T) {
	s := NewStore()
	base := time.Now()
	require.NoError(t, s.InsertHead(confirmedRecord(7, "older", base.Add(-time.Hour))))

	prov := NewProvisionalID()
	require.NoError(t, s.InsertHead(Record{
		ID:      prov,
		Name:    "in flight",
		Status:  StatusGenerating,
		Origin:  OriginOptimistic,
		SortKey: base,
	}))

	require.NoError(t, s.Promote(prov, DurableID(42), "/files/r42.pdf", "1.2 KB"))

	snap := s.Snapshot()
	require.Len(t, snap, 2)

	// Same position, new identity, no flicker
	got := snap[0]
	assert.Equal(t, DurableID(42), got.ID)
	assert.Equal(t, "in flight", got.Name)
	assert.Equal(t, StatusReady, got.Status)
	assert.Equal(t, OriginConfirmed, got.Origin)
	assert.Equal(t, "/files/r42.pdf", got.FilePath)
	assert.Equal(t, "1.2 KB", got.SizeLabel)
	assert.False(t, got.PendingVerification)

	_, ok := s.Get(prov)
	assert.False(t, ok, "provisional identity must be gone after promotion")
}

func TestPromoteDropsOptimisticTwin(t *testing.T) {
	s := NewStore()
	// The durable row arrived via a listing merge before the create call
	// came back.
	require.NoError(t, s.InsertHead(confirmedRecord(42, "mirrored", time.Now())))

	prov := NewProvisionalID()
	require.NoError(t, s.InsertHead(Record{ID: prov, Name: "twin", Origin: OriginOptimistic, SortKey: time.Now()}))

	require.NoError(t, s.Promote(prov, DurableID(42), "", ""))
	assert.Equal(t, 1, s.Len())
	rec, ok := s.Get(DurableID(42))
	require.True(t, ok)
	assert.Equal(t, "mirrored", rec.Name)
}

func TestPromoteMissingRecordFails(t *testing.T) {
	s := NewStore()
	err := s.Promote(NewProvisionalID(), DurableID(1), "", "")
	assert.Error(t, err)
}

func TestRemoveAndRestoreAtKeepsPosition(t *testing.T) {
	s := NewStore()
	base := time.Now()
	for i, name := range []string{"c", "b", "a"} {
		require.NoError(t, s.InsertHead(confirmedRecord(int64(i+1), name, base.Add(time.Duration(i)*time.Minute))))
	}
	// Order is now a, b, c

	rec, idx, ok := s.Remove(DurableID(2))
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 2, s.Len())

	s.RestoreAt(rec, idx)
	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "b", snap[1].Name)
}

func TestRemoveUnknownIdentity(t *testing.T) {
	s := NewStore()
	_, _, ok := s.Remove(DurableID(99))
	assert.False(t, ok)
}

func TestMergePreservesOptimisticRecords(t *testing.T) {
	s := NewStore()
	base := time.Now()

	prov := NewProvisionalID()
	require.NoError(t, s.InsertHead(Record{
		ID:      prov,
		Name:    "in flight",
		Status:  StatusGenerating,
		Origin:  OriginOptimistic,
		SortKey: base.Add(time.Minute),
	}))

	s.Merge([]Record{
		confirmedRecord(1, "backend one", base),
		confirmedRecord(2, "backend two", base.Add(-time.Hour)),
	})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "in flight", snap[0].Name, "optimistic record must survive the merge on top")
	assert.Equal(t, "backend one", snap[1].Name)
	assert.Equal(t, "backend two", snap[2].Name)
}

func TestMergeKeepsClientSideFields(t *testing.T) {
	s := NewStore()
	base := time.Now()
	rec := confirmedRecord(5, "r", base)
	require.NoError(t, s.InsertHead(rec))
	s.SetLocalArtifact(DurableID(5), "/tmp/r.pdf")
	s.MarkPendingVerification(DurableID(5), true)

	s.Merge([]Record{confirmedRecord(5, "r", base)})

	got, ok := s.Get(DurableID(5))
	require.True(t, ok)
	assert.Equal(t, "/tmp/r.pdf", got.LocalArtifact)
	assert.True(t, got.PendingVerification)
}

func TestMarkPendingVerification(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.InsertHead(confirmedRecord(1, "r", time.Now())))

	s.MarkPendingVerification(DurableID(1), true)
	rec, _ := s.Get(DurableID(1))
	assert.True(t, rec.PendingVerification)

	s.MarkPendingVerification(DurableID(1), false)
	rec, _ = s.Get(DurableID(1))
	assert.False(t, rec.PendingVerification)
}
