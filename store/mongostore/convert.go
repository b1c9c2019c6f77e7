package mongostore

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wranglebase/wranglebase/store"
)

// fieldsFromSample derives the field list from one sampled document,
// preserving the document's own field order.
func fieldsFromSample(doc bson.D) []store.Column {
	cols := make([]store.Column, 0, len(doc))
	for _, e := range doc {
		cols = append(cols, store.Column{Name: e.Key})
	}
	return cols
}

// recordFromDocument converts a decoded document into a Record with
// JSON-safe values, keeping nested structure intact.
func recordFromDocument(doc bson.D) store.Record {
	rec := make(store.Record, len(doc))
	for _, e := range doc {
		rec[e.Key] = normalizeValue(e.Value)
	}
	return rec
}

// normalizeValue rewrites BSON-specific types into plain scalars:
// ObjectIDs become their canonical hex string, BSON timestamps become
// time.Time, arrays and subdocuments are normalized recursively.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time()
	case bson.D:
		return recordFromDocument(t)
	case primitive.A:
		out := make([]any, len(t))
		for i, el := range t {
			out[i] = normalizeValue(el)
		}
		return out
	default:
		return v
	}
}
