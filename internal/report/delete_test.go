package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteConfirmedRecordRemovesBackendRow(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.InsertHead(confirmedRecord(42, "r", time.Now())))
	backend := &fakeBackend{}
	c := NewController(store, backend, &fakeAssembler{})

	require.NoError(t, c.Delete(context.Background(), DurableID(42)))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, []int64{42}, backend.deletedIDs())
}

func TestDeleteProvisionalRecordIsClientSideOnly(t *testing.T) {
	store := NewStore()
	prov := NewProvisionalID()
	require.NoError(t, store.InsertHead(Record{ID: prov, Name: "in flight", Origin: OriginOptimistic}))
	backend := &fakeBackend{}
	c := NewController(store, backend, &fakeAssembler{})

	require.NoError(t, c.Delete(context.Background(), prov))
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, backend.deletedIDs(), "nothing exists remotely for a provisional record")
}

func TestDeleteUnknownRecord(t *testing.T) {
	c := NewController(NewStore(), &fakeBackend{}, &fakeAssembler{})
	err := c.Delete(context.Background(), DurableID(99))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteBackendFailureRestoresAtPosition(t *testing.T) {
	store := NewStore()
	base := time.Now()
	require.NoError(t, store.InsertHead(confirmedRecord(1, "bottom", base.Add(-2*time.Hour))))
	require.NoError(t, store.InsertHead(confirmedRecord(2, "middle", base.Add(-time.Hour))))
	require.NoError(t, store.InsertHead(confirmedRecord(3, "top", base)))

	backend := &fakeBackend{deleteErr: errors.New("403 forbidden")}
	c := NewController(store, backend, &fakeAssembler{})

	err := c.Delete(context.Background(), DurableID(2))
	require.Error(t, err)

	// Restored exactly where it was
	snap := store.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "middle", snap[1].Name)
}

func TestDeleteUnreachableBackendKeepsRemoval(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.InsertHead(confirmedRecord(42, "r", time.Now())))
	backend := &fakeBackend{deleteErr: errUnreachable}
	c := NewController(store, backend, &fakeAssembler{},
		WithUnreachableClassifier(func(err error) bool { return errors.Is(err, errUnreachable) }),
	)

	// The user already dismissed the record; an unreachable backend does
	// not resurrect it.
	require.NoError(t, c.Delete(context.Background(), DurableID(42)))
	assert.Equal(t, 0, store.Len())
}
