package normalize

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestID(t *testing.T) {
	oid := primitive.NewObjectID()

	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{"ObjectID value", oid, oid.Hex()},
		{"ObjectID pointer", &oid, oid.Hex()},
		{"hex string", oid.Hex(), oid.Hex()},
		{"uppercase hex string", "507F1F77BCF86CD799439011", "507f1f77bcf86cd799439011"},
		{"hex string with spaces", "  " + oid.Hex() + "  ", oid.Hex()},
		{"array-embedded id", primitive.A{oid}, oid.Hex()},
		{"interface slice id", []interface{}{oid.Hex()}, oid.Hex()},
		{"empty array", primitive.A{}, ""},
		{"nil", nil, ""},
		{"nil pointer", (*primitive.ObjectID)(nil), ""},
		{"zero ObjectID", primitive.NilObjectID, ""},
		{"garbage string", "not-an-id", ""},
		{"short hex", "abc123", ""},
		{"unsupported type", 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ID(tt.input); got != tt.expected {
				t.Errorf("ID(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIDEqual(t *testing.T) {
	oid := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name     string
		a, b     interface{}
		expected bool
	}{
		{"ObjectID vs its hex string", oid, oid.Hex(), true},
		{"array-embedded vs ObjectID", primitive.A{oid}, oid, true},
		{"different ids", oid, other, false},
		{"unparsable never equal", "garbage", "garbage", false},
		{"nil never equal", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IDEqual(tt.a, tt.b); got != tt.expected {
				t.Errorf("IDEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestObjectIDs(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	got := ObjectIDs([]interface{}{a, a.Hex(), "garbage", nil, b.Hex()})
	if len(got) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(got))
	}
	if got[0] != a || got[1] != b {
		t.Errorf("ObjectIDs order/content wrong: %v", got)
	}
}

func TestSubjectKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "Data Structures", "data structures"},
		{"trims", "  Data Structures  ", "data structures"},
		{"collapses inner whitespace", "Data   Structures\tUsing C", "data structures using c"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubjectKey(tt.input); got != tt.expected {
				t.Errorf("SubjectKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
