package report

import (
	"strings"
	"testing"
)

func TestProvisionalIDIsUniqueAndTagged(t *testing.T) {
	a := NewProvisionalID()
	b := NewProvisionalID()

	if !a.IsProvisional() {
		t.Fatalf("expected provisional id, got kind %v", a.Kind())
	}
	if a.Equal(b) {
		t.Fatal("two minted provisional ids must not collide")
	}
	if !strings.HasPrefix(a.String(), "tmp-") {
		t.Errorf("provisional id rendering = %q, want tmp- prefix", a.String())
	}
}

func TestDurableIDRoundTrip(t *testing.T) {
	id := DurableID(42)
	if id.String() != "42" {
		t.Errorf("String() = %q, want 42", id.String())
	}
	n, ok := id.Durable()
	if !ok || n != 42 {
		t.Errorf("Durable() = (%d, %v), want (42, true)", n, ok)
	}

	parsed, err := ParseDurableID("42")
	if err != nil {
		t.Fatalf("ParseDurableID: %v", err)
	}
	if !parsed.Equal(id) {
		t.Errorf("parsed %v != %v", parsed, id)
	}
}

func TestParseDurableIDRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "tmp-1234", "-5", "0"} {
		if _, err := ParseDurableID(in); err == nil {
			t.Errorf("ParseDurableID(%q) succeeded, want error", in)
		}
	}
}

func TestProvisionalAndDurableNeverEqual(t *testing.T) {
	if NewProvisionalID().Equal(DurableID(1)) {
		t.Fatal("provisional and durable identities must never compare equal")
	}
	var zero ID
	if !zero.IsZero() {
		t.Fatal("zero value must report IsZero")
	}
}
