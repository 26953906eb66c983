package report

import (
	"context"
	"fmt"

	"plantops/internal/logging"
)

// Delete removes a report from the store and, when the record is known to
// exist in the system of record, from the backend. Interactive confirmation
// happens at the UI layer before this is called; deletion is not reversible.
//
// The removal is optimistic: the record leaves the store before the backend
// call resolves. Provisional records are deleted client-side only - there is
// nothing to delete remotely yet. If the backend delete fails for a reason
// other than being unreachable, the record is restored at its original
// position and the error surfaced; an unreachable backend is treated as a
// final removal rather than resurrecting a record the user already
// dismissed.
func (c *Controller) Delete(ctx context.Context, id ID) error {
	rec, idx, ok := c.store.Remove(id)
	if !ok {
		return ErrNotFound
	}
	logging.Reports("delete requested: %s (%s)", rec.ID, rec.Name)

	if rec.Origin != OriginConfirmed {
		return nil
	}

	durable, ok := rec.ID.Durable()
	if !ok {
		// Confirmed records always carry a durable identity; a mismatch
		// here means a store invariant was broken upstream.
		c.store.RestoreAt(rec, idx)
		return fmt.Errorf("confirmed record %s has no durable id", rec.ID)
	}

	if err := c.backend.DeleteReport(ctx, durable); err != nil {
		if c.unreachable(err) {
			logging.ReportsError("backend unreachable deleting report %d; keeping optimistic removal: %v", durable, err)
			return nil
		}
		c.store.RestoreAt(rec, idx)
		return fmt.Errorf("delete report %d: %w", durable, err)
	}
	return nil
}
