// Package descriptor holds the resolved per-field configuration used by converters and
// the codec engine, and the override layers that produce it.
//
// A Descriptor is immutable once built. Applying an Override yields a new Descriptor;
// Merge applies the three ordered layers (field default < container override <
// type-level override) in one call.
package descriptor
