// Package storage persists whole-collection snapshots. Every mutation in the
// repo layer is load -> modify -> save of the entire collection; there is no
// incremental log and no cross-call locking, so two concurrent writers race
// and the later Save silently discards the earlier one's changes. That
// lost-update hazard is an explicit non-guarantee of the service.
package storage

// Snapshot loads and saves one collection wholesale. v is a pointer to a
// slice of the collection's record type. Drivers must preserve insertion
// order and be lossless for field names and values; Load decodes numbers as
// json.Number so numeric ids round-trip unchanged.
type Snapshot interface {
	Load(v any) error
	Save(v any) error
}
