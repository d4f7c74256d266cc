package convert

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"

	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/schema"
	"fixed-format/subtype"
)

// Registry is the lookup table of converters. Registration is insert-if-absent:
// the first converter registered for a key wins and later ones are ignored.
// The zero value is ready to use and safe for concurrent lookup and insert.
type Registry struct {
	byType sync.Map // reflect.Type -> Converter
	named  sync.Map // string -> Converter
	enums  sync.Map // reflect.Type -> *enumConverter
}

// NewRegistry creates an empty Registry. Built-in converters need no
// registration.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register binds c to type t. It reports whether c was stored.
func (r *Registry) Register(t reflect.Type, c Converter) bool {
	_, loaded := r.byType.LoadOrStore(t, c)
	return !loaded
}

// RegisterNamed binds c to a name usable as the `converter` descriptor option.
func (r *Registry) RegisterNamed(name string, c Converter) bool {
	_, loaded := r.named.LoadOrStore(name, c)
	return !loaded
}

// RegisterEnum declares an integer-kind type as an enumeration whose ordinal i
// has the name names[i].
func (r *Registry) RegisterEnum(t reflect.Type, names ...string) error {
	if !KindOf(t).IsInteger() {
		return fmt.Errorf("register enum %s: underlying kind %s is not an integer", t, t.Kind())
	}

	r.enums.LoadOrStore(t, newEnumConverter(t, names))

	return nil
}

// RegisterFor is the generic form of (*Registry).Register.
func RegisterFor[T any](r *Registry, c Converter) bool {
	return r.Register(reflect.TypeFor[T](), c)
}

// RegisterEnumFor is the generic form of (*Registry).RegisterEnum.
func RegisterEnumFor[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](
	r *Registry, names ...string,
) error {
	return r.RegisterEnum(reflect.TypeFor[T](), names...)
}

var (
	fixedMarshalerType   = reflect.TypeFor[FixedWidthMarshaler]()
	fixedUnmarshalerType = reflect.TypeFor[FixedWidthUnmarshaler]()
	textMarshalerType    = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType  = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// Resolve finds the converter for the descriptor's target type. The order is:
// the explicit converter named by the descriptor, a nested-pattern converter
// from nested, a registered converter for the exact type, a built-in for the
// exact type, a single-value wrapper, a registered enumeration, and finally the
// built-in of the type's underlying kind.
func (r *Registry) Resolve(d descriptor.Descriptor, nested NestedFunc) (Converter, error) {
	if d.Converter != "" {
		if c, ok := r.named.Load(d.Converter); ok {
			return c.(Converter), nil
		}

		return nil, &fferrors.ConverterNotFoundError{Type: fmt.Sprint(d.Target), Field: d.Name, Name: d.Converter}
	}

	t := subtype.Base(d.Target)
	if t == nil {
		return nil, &fferrors.ConverterNotFoundError{Type: "<nil>", Field: d.Name}
	}

	if nested != nil {
		c, ok, err := nested(t)
		if err != nil {
			return nil, err
		}

		if ok {
			return c, nil
		}
	}

	if c, ok := r.byType.Load(t); ok {
		return c.(Converter), nil
	}

	if c, ok := builtins[t]; ok {
		return c, nil
	}

	c, ok, err := r.wrapper(t, nested)
	if err != nil {
		return nil, err
	}

	if ok {
		return c, nil
	}

	if c, ok := r.enums.Load(t); ok {
		return c.(Converter), nil
	}

	if c, ok := byKind(t); ok {
		return c, nil
	}

	return nil, &fferrors.ConverterNotFoundError{Type: t.String(), Field: d.Name}
}

// wrapper detects single-value types: a fixed-width marshaler pair, a text
// marshaler pair, or a struct with exactly one `value` field.
func (r *Registry) wrapper(t reflect.Type, nested NestedFunc) (Converter, bool, error) {
	ptr := reflect.PointerTo(t)

	marshals := t.Implements(fixedMarshalerType) || ptr.Implements(fixedMarshalerType)
	unmarshals := ptr.Implements(fixedUnmarshalerType)

	switch {
	case marshals && unmarshals:
		return fixedWidthConverter{}, true, nil
	case marshals != unmarshals:
		return nil, false, fferrors.Schemaf(t.String(), "",
			"ambiguous value-converter accessor: fixed-width marshaling is implemented in one direction only")
	}

	if (t.Implements(textMarshalerType) || ptr.Implements(textMarshalerType)) && ptr.Implements(textUnmarshalerType) {
		return textConverter{}, true, nil
	}

	sf, ok, err := schema.ValueField(t)
	if err != nil || !ok {
		return nil, false, err
	}

	inner := descriptor.Descriptor{Target: sf.Type}.With(schema.ValueDescriptor(sf))

	c, err := r.Resolve(inner, nested)
	if err != nil {
		return nil, false, fferrors.WrapSchema(t.String(), sf.Name, "value field has no converter", err)
	}

	return valueConverter{field: sf, inner: c, override: schema.ValueDescriptor(sf)}, true, nil
}
