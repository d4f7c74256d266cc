// Package analyze loads Go packages with golang.org/x/tools/go/packages and
// describes their named types the way the schema package sees them at run
// time: logical field names, parsed `fixed` tags, promoted fields of
// embedded structs, container fields and FixedPattern methods.
//
// The CLI uses it to scaffold YAML schema files from tagged structs and to
// check schema files against the types they name, without running the
// program that owns those types.
package analyze
