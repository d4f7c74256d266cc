package convert

import (
	"reflect"

	"fixed-format/descriptor"
)

// Converter turns one leaf value into positional text and back.
//
// Format receives a valid value with pointers and interfaces removed. Parse
// receives exactly the characters of the field and returns a value of the
// descriptor's target type (or its pointer-free base); an invalid
// reflect.Value means "no value" and the reader skips the assignment.
// Errors are plain; the codec attaches the field name and raw text.
type Converter interface {
	Format(d descriptor.Descriptor, v reflect.Value) (string, error)
	Parse(d descriptor.Descriptor, text string) (reflect.Value, error)
}

// VariableWidth is implemented by converters whose width is encoded in the
// data itself, such as continuation-bit bitmaps. ParseSpan receives the rest
// of the record and reports how many characters it consumed.
type VariableWidth interface {
	Converter
	ParseSpan(d descriptor.Descriptor, input string) (v reflect.Value, consumed int, err error)
}

// Sizer is implemented by converters that know their width without a
// descriptor width, such as nested patterns made of fixed-width fields.
type Sizer interface {
	IntrinsicWidth(d descriptor.Descriptor) (int, bool)
}

// NestedFunc is asked for a nested-pattern converter before the built-ins.
// It returns ok == false when t carries no pattern of its own.
type NestedFunc func(t reflect.Type) (c Converter, ok bool, err error)

// Funcs adapts two functions to a Converter.
type Funcs struct {
	FormatFunc func(d descriptor.Descriptor, v reflect.Value) (string, error)
	ParseFunc  func(d descriptor.Descriptor, text string) (reflect.Value, error)
}

func (f Funcs) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	return f.FormatFunc(d, v)
}

func (f Funcs) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	return f.ParseFunc(d, text)
}

// WidthOf returns the width a field occupies without reading data: the
// descriptor width, else the converter's intrinsic width.
func WidthOf(c Converter, d descriptor.Descriptor) (int, bool) {
	if d.Width > 0 {
		return d.Width, true
	}

	if s, ok := c.(Sizer); ok {
		return s.IntrinsicWidth(d)
	}

	return 0, false
}
