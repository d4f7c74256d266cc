// Package pattern compiles positional format patterns into token streams.
//
// A pattern is literal text interleaved with placeholders:
//
//	${path}                 field at its declared width
//	${path:8}               inline width override
//	${path:8:?}             inline width and placeholder override
//	${path::?}              placeholder override only
//	${path:45}[10]          repeated 10 times (indices 0..9)
//	${path:45}[2..5]        indices 2..5 inclusive
//	${path:45}[2..*]        from index 2 until the data is exhausted
//	${path:45}[*]           from index 0 until the first missing element
//
// "$$" is a literal "$". Compilation is pure: the same pattern always yields the
// same tokens, and malformed syntax fails with an error carrying its offset.
package pattern
