package convert

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"fixed-format/descriptor"
)

// FixedWidthMarshaler is implemented by value types that render themselves
// into a field of the given width.
type FixedWidthMarshaler interface {
	MarshalFixedWidth(width int) ([]byte, error)
}

// FixedWidthUnmarshaler is implemented by value types that parse their own
// field text.
type FixedWidthUnmarshaler interface {
	UnmarshalFixedWidth(data []byte) error
}

// addressable returns a pointer to a copy of v so that pointer receivers can
// be called.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v.Addr()
	}

	p := reflect.New(v.Type())
	p.Elem().Set(v)

	return p
}

type fixedWidthConverter struct{}

func (fixedWidthConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	m, ok := addressable(v).Interface().(FixedWidthMarshaler)
	if !ok {
		return "", fmt.Errorf("%s does not marshal fixed width", v.Type())
	}

	b, err := m.MarshalFixedWidth(d.Width)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (fixedWidthConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	if IsPlaceholder(d, text) && d.Placeholder != "" {
		return reflect.Value{}, nil
	}

	p := reflect.New(targetOr(d, nil))
	if err := p.Interface().(FixedWidthUnmarshaler).UnmarshalFixedWidth([]byte(text)); err != nil {
		return reflect.Value{}, err
	}

	return p.Elem(), nil
}

type textConverter struct{}

func (textConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	b, err := addressable(v).Interface().(encoding.TextMarshaler).MarshalText()
	if err != nil {
		return "", err
	}

	return PadRight(string(b), d.Width, ' '), nil
}

func (textConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimRight(text, " ")
	if s == d.Placeholder {
		return reflect.Value{}, nil
	}

	p := reflect.New(targetOr(d, nil))
	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, err
	}

	return p.Elem(), nil
}

// valueConverter handles a struct carrying exactly one `value` field by
// converting that field. The field's own tag settings apply where the using
// field leaves them unset.
type valueConverter struct {
	field    reflect.StructField
	inner    Converter
	override descriptor.Override
}

func (c valueConverter) descriptor(outer descriptor.Descriptor) descriptor.Descriptor {
	d := descriptor.Descriptor{Name: outer.Name, Target: c.field.Type}.With(c.override)

	return overlay(d, outer)
}

// overlay copies every non-zero setting of outer onto d.
func overlay(d, outer descriptor.Descriptor) descriptor.Descriptor {
	if outer.Class != descriptor.ClassDefault {
		d.Class = outer.Class
	}

	if outer.Width != 0 {
		d.Width = outer.Width
	}

	if outer.Scale != 0 {
		d.Scale = outer.Scale
	}

	if outer.Format != "" {
		d.Format = outer.Format
	}

	if outer.Locale != "" {
		d.Locale = outer.Locale
	}

	if outer.Zone != "" {
		d.Zone = outer.Zone
	}

	if outer.Placeholder != "" {
		d.Placeholder = outer.Placeholder
	}

	return d
}

func (c valueConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	inner := v.FieldByIndex(c.field.Index)
	for inner.Kind() == reflect.Pointer {
		if inner.IsNil() {
			return PlaceholderText(d, d.Width), nil
		}

		inner = inner.Elem()
	}

	return c.inner.Format(c.descriptor(d), inner)
}

func (c valueConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	inner, err := c.inner.Parse(c.descriptor(d), text)
	if err != nil || !inner.IsValid() {
		return reflect.Value{}, err
	}

	out := reflect.New(targetOr(d, nil)).Elem()
	slot := out.FieldByIndex(c.field.Index)

	switch {
	case inner.Type().AssignableTo(slot.Type()):
		slot.Set(inner)
	case slot.Kind() == reflect.Pointer && inner.Type().AssignableTo(slot.Type().Elem()):
		p := reflect.New(inner.Type())
		p.Elem().Set(inner)
		slot.Set(p)
	case inner.Type().ConvertibleTo(slot.Type()) && inner.Kind() == slot.Kind():
		slot.Set(inner.Convert(slot.Type()))
	default:
		return reflect.Value{}, fmt.Errorf("cannot store %s in value field %s", inner.Type(), c.field.Name)
	}

	return out, nil
}

func (c valueConverter) IntrinsicWidth(d descriptor.Descriptor) (int, bool) {
	return WidthOf(c.inner, c.descriptor(d))
}
