// Package report implements the report lifecycle engine for the plantops
// console: an ordered client-side store of report records, the reconciliation
// controller that keeps it aligned with the backend system of record, and the
// download/delete/preview handlers that operate on it.
package report

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDKind distinguishes client-minted placeholder identities from
// backend-assigned durable ones.
type IDKind int

const (
	// IDProvisional is a client-minted placeholder, unique per session,
	// used only until the backend assigns a durable identity.
	IDProvisional IDKind = iota
	// IDDurable is the backend-assigned identity of a persisted report.
	IDDurable
)

// provisionalPrefix tags provisional identities so they can never collide
// with a stringified durable id.
const provisionalPrefix = "tmp-"

// ID is a tagged report identity. Comparisons and backend-call eligibility
// are decided by the tag, never inferred from the runtime shape of the value.
type ID struct {
	kind    IDKind
	token   string // provisional token, without prefix
	durable int64
}

// NewProvisionalID mints a fresh provisional identity.
func NewProvisionalID() ID {
	return ID{kind: IDProvisional, token: uuid.NewString()}
}

// DurableID wraps a backend-assigned numeric identity.
func DurableID(n int64) ID {
	return ID{kind: IDDurable, durable: n}
}

// ParseDurableID coerces a backend identity of unknown shape (numeric or
// opaque string) into a durable ID. Non-numeric strings are rejected.
func ParseDurableID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ID{}, fmt.Errorf("unparseable durable report id %q: %w", s, err)
	}
	if n <= 0 {
		return ID{}, fmt.Errorf("durable report id must be positive, got %d", n)
	}
	return DurableID(n), nil
}

// Kind returns the identity tag.
func (id ID) Kind() IDKind { return id.kind }

// IsProvisional reports whether the identity is a client-minted placeholder.
func (id ID) IsProvisional() bool { return id.kind == IDProvisional }

// Durable returns the backend-assigned number. The second return is false
// for provisional identities.
func (id ID) Durable() (int64, bool) {
	if id.kind != IDDurable {
		return 0, false
	}
	return id.durable, true
}

// IsZero reports whether the identity is the zero value (no report).
func (id ID) IsZero() bool {
	return id.kind == IDProvisional && id.token == ""
}

// Equal compares two identities. A provisional and a durable identity are
// never equal, regardless of their underlying values.
func (id ID) Equal(other ID) bool {
	if id.kind != other.kind {
		return false
	}
	if id.kind == IDProvisional {
		return id.token == other.token
	}
	return id.durable == other.durable
}

// String renders the identity for logs and display. Provisional identities
// carry a "tmp-" tag; durable ones are the plain number.
func (id ID) String() string {
	if id.kind == IDProvisional {
		return provisionalPrefix + id.token
	}
	return strconv.FormatInt(id.durable, 10)
}
