// Package check validates YAML schema files against the Go types loaded by
// the analyze package: type names, override keys, pattern placeholders and
// discriminator declarations.
package check
