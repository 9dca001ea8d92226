package models

import (
	"encoding/json"
	"strconv"
)

// Item is a free-form JSON object. The only field with any meaning to the
// store is "id"; everything else is opaque and passes through unchanged.
// Decode item payloads with UseNumber so numeric ids survive the round trip
// without being rewritten as floats.
type Item map[string]any

// CanonicalID normalizes an id value to its string form. JSON numbers and
// their string representations address the same item: 42 and "42" both
// canonicalize to "42". Returns false when the value is absent or not an
// id-like type.
func CanonicalID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		if id == "" {
			return "", false
		}
		return id, true
	case json.Number:
		return id.String(), true
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), true
	case int:
		return strconv.Itoa(id), true
	case int64:
		return strconv.FormatInt(id, 10), true
	default:
		return "", false
	}
}

// ID returns the item's canonical id, or false when the item has none.
func (it Item) ID() (string, bool) {
	return CanonicalID(it["id"])
}

// Merge returns a shallow merge of the item with patch: patch fields
// overwrite, fields absent from patch are preserved. Neither input is
// mutated.
func (it Item) Merge(patch Item) Item {
	out := make(Item, len(it)+len(patch))
	for k, v := range it {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
