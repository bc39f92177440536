// Package normalize canonicalizes the heterogeneous identifier and semester
// representations found across the portal's collections.
// #DATA_ASSUMPTION: Legacy writers stored ids as strings, ObjectIDs or
// single-element arrays; all comparison sites must go through this package
package normalize

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID canonicalizes any id-like value to a lowercase 24-char hex string.
// Unparsable values normalize to "" and are treated as "no match"; no value
// ever causes an error.
func ID(v interface{}) string {
	oid, ok := ObjectID(v)
	if !ok {
		return ""
	}
	return oid.Hex()
}

// ObjectID extracts a primitive.ObjectID from any id-like value.
func ObjectID(v interface{}) (primitive.ObjectID, bool) {
	switch t := v.(type) {
	case nil:
		return primitive.NilObjectID, false
	case primitive.ObjectID:
		if t.IsZero() {
			return primitive.NilObjectID, false
		}
		return t, true
	case *primitive.ObjectID:
		if t == nil {
			return primitive.NilObjectID, false
		}
		return ObjectID(*t)
	case string:
		s := strings.TrimSpace(t)
		oid, err := primitive.ObjectIDFromHex(strings.ToLower(s))
		if err != nil {
			return primitive.NilObjectID, false
		}
		return oid, true
	case primitive.A:
		// Legacy array-embedded ids hold a single element
		if len(t) == 0 {
			return primitive.NilObjectID, false
		}
		return ObjectID(t[0])
	case []interface{}:
		if len(t) == 0 {
			return primitive.NilObjectID, false
		}
		return ObjectID(t[0])
	default:
		return primitive.NilObjectID, false
	}
}

// IDEqual reports whether two id-like values refer to the same document.
// Two unparsable values are never equal.
func IDEqual(a, b interface{}) bool {
	ca, cb := ID(a), ID(b)
	return ca != "" && ca == cb
}

// ObjectIDs normalizes a mixed slice into the parsable ObjectIDs it contains,
// preserving order and dropping unparsable entries. The result is ready for a
// $in filter.
func ObjectIDs(vs []interface{}) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(vs))
	seen := make(map[primitive.ObjectID]bool, len(vs))
	for _, v := range vs {
		oid, ok := ObjectID(v)
		if !ok || seen[oid] {
			continue
		}
		seen[oid] = true
		out = append(out, oid)
	}
	return out
}

// SubjectKey returns the catalog dedup key for a subject name: trimmed,
// lowercased, inner whitespace collapsed.
func SubjectKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
