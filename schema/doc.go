// Package schema builds and caches the per-type field index consumed by the codec.
//
// An Index maps logical field names to descriptors for one Go struct type, plus lazily
// built nested indexes for fields marked as containers. Three sources feed it:
//
//   - `fixed` struct tags (field defaults),
//   - Definitions registered in code or through the Builder,
//   - YAML schema files (LoadFile/Parse, then File.Apply).
//
// Descriptors merge three layers in order: the field's own tag, overrides declared by
// the containing type for "container.field", and overrides the type declares for its
// own fields. Indexes are memoized per (type, override context) for the lifetime of
// the Registry and never evicted.
package schema
