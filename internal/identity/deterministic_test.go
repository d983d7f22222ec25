package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestRecordUUIDIsStablePerType(t *testing.T) {
	first := RecordUUID("job", "legacy-42")
	second := RecordUUID("job", "legacy-42")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected deterministic uuid, got %s and %s", first, second)
	}
	if other := RecordUUID("project", "legacy-42"); other == first {
		t.Fatal("expected content type to scope the identifier")
	}
}

func TestRecordUUIDEmptyExternalID(t *testing.T) {
	if got := RecordUUID("job", "  "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank id, got %s", got)
	}
}
