// Package errors defines the failure taxonomy shared by the schema, path, converter
// and codec packages.
//
// Callers usually import it under an alias:
//
//	import fferrors "fixed-format/errors"
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// SchemaError reports an unresolvable property path, a missing field container, an
// ambiguous value-converter accessor or any other mismatch between a type and its schema.
type SchemaError struct {
	Type  string // type name the error was raised for, may be empty
	Path  string // property path or field name, may be empty
	Msg   string
	Cause error
}

func (e *SchemaError) Error() string {
	var sb strings.Builder

	sb.WriteString("schema")

	if e.Type != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Type)
	}

	if e.Path != "" {
		sb.WriteString(" [")
		sb.WriteString(e.Path)
		sb.WriteString("]")
	}

	sb.WriteString(": ")
	sb.WriteString(e.Msg)

	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}

	return sb.String()
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Schema creates a SchemaError.
func Schema(typ, path, msg string) *SchemaError {
	return &SchemaError{Type: typ, Path: path, Msg: msg}
}

// Schemaf creates a SchemaError with a formatted message.
func Schemaf(typ, path, format string, args ...any) *SchemaError {
	return &SchemaError{Type: typ, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// WrapSchema creates a SchemaError caused by err.
func WrapSchema(typ, path, msg string, err error) *SchemaError {
	return &SchemaError{Type: typ, Path: path, Msg: msg, Cause: err}
}

// ConverterNotFoundError reports that no converter could be resolved for a leaf type.
type ConverterNotFoundError struct {
	Type  string
	Field string
	Name  string // explicit converter name that was requested, if any
}

func (e *ConverterNotFoundError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("converter %q not registered (field %q, type %s)", e.Name, e.Field, e.Type)
	case e.Field != "":
		return fmt.Sprintf("no converter for type %s (field %q)", e.Type, e.Field)
	default:
		return "no converter for type " + e.Type
	}
}

// FieldConversionError reports that formatting or parsing one field failed.
// On parse it carries the offending raw substring.
type FieldConversionError struct {
	Field   string
	Raw     string
	Parsing bool
	Cause   error
}

func (e *FieldConversionError) Error() string {
	if e.Parsing {
		return fmt.Sprintf("field %q: cannot parse %q: %v", e.Field, e.Raw, e.Cause)
	}

	return fmt.Sprintf("field %q: cannot format value: %v", e.Field, e.Cause)
}

func (e *FieldConversionError) Unwrap() error { return e.Cause }

// FormatFailed creates a FieldConversionError for the write direction.
func FormatFailed(field string, cause error) *FieldConversionError {
	return &FieldConversionError{Field: field, Cause: cause}
}

// ParseFailed creates a FieldConversionError for the read direction.
func ParseFailed(field, raw string, cause error) *FieldConversionError {
	return &FieldConversionError{Field: field, Raw: raw, Parsing: true, Cause: cause}
}

// ProcessingError wraps any failure of a complete read or write pass and keeps the
// input object (write) or text (read) for diagnostics.
type ProcessingError struct {
	Op    string // "read" or "write"
	Input any
	Cause error
}

func (e *ProcessingError) Error() string {
	if s, ok := e.Input.(string); ok {
		return fmt.Sprintf("%s %q: %v", e.Op, s, e.Cause)
	}

	return fmt.Sprintf("%s %T: %v", e.Op, e.Input, e.Cause)
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

// Process applies the top-level propagation policy to an error raised during a pass:
// a FieldConversionError is returned as is, a ProcessingError is never wrapped twice,
// anything else is wrapped once into a ProcessingError.
func Process(op string, input any, err error) error {
	if err == nil {
		return nil
	}

	var fce *FieldConversionError
	if stderrors.As(err, &fce) {
		return fce
	}

	var pe *ProcessingError
	if stderrors.As(err, &pe) {
		return pe
	}

	return &ProcessingError{Op: op, Input: input, Cause: err}
}

// IsSchema reports whether err is or wraps a SchemaError.
func IsSchema(err error) bool {
	var se *SchemaError
	return stderrors.As(err, &se)
}

// IsConverterNotFound reports whether err is or wraps a ConverterNotFoundError.
func IsConverterNotFound(err error) bool {
	var cnf *ConverterNotFoundError
	return stderrors.As(err, &cnf)
}

// IsFieldConversion reports whether err is or wraps a FieldConversionError.
func IsFieldConversion(err error) bool {
	var fce *FieldConversionError
	return stderrors.As(err, &fce)
}
