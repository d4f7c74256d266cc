// Package codec maps objects to fixed-width text and back.
//
// A pattern such as
//
//	${bankCode:8}${accountNumber:10}
//
// lists the fields of a record in order. The Writer walks the compiled tokens,
// copies literal text, resolves every placeholder to concrete property paths
// and appends the converted, padded value of each. The Reader walks the same
// tokens with a cursor over the input, slices each field, parses it and
// assigns the result, creating intermediate structs, lists and maps as
// needed. Text equal to a field's placeholder is "no value" and leaves the
// target untouched.
//
// Field types with a pattern of their own are converted by running the
// engine recursively, and interfaces declared as supertypes in the subtype
// registry are read as the variant their discriminator selects.
//
// Errors from a pass are returned as *errors.FieldConversionError when a
// single field failed and as *errors.ProcessingError otherwise.
package codec
