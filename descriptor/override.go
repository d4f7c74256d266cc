package descriptor

import (
	"sort"
	"strconv"
	"strings"
)

// Override is one layer of optional descriptor settings. Nil fields leave the
// underlying value untouched.
type Override struct {
	Class       *Classification `yaml:"class,omitempty"`
	Width       *int            `yaml:"width,omitempty"`
	Scale       *int            `yaml:"scale,omitempty"`
	Format      *string         `yaml:"format,omitempty"`
	Locale      *string         `yaml:"locale,omitempty"`
	Zone        *string         `yaml:"zone,omitempty"`
	Placeholder *string         `yaml:"placeholder,omitempty"`
	ReadOnly    *bool           `yaml:"readonly,omitempty"`
	Converter   *string         `yaml:"converter,omitempty"`
}

// IsZero returns true if the override sets nothing.
func (o Override) IsZero() bool {
	return o.Class == nil && o.Width == nil && o.Scale == nil && o.Format == nil &&
		o.Locale == nil && o.Zone == nil && o.Placeholder == nil && o.ReadOnly == nil &&
		o.Converter == nil
}

// Then combines two layers; fields set in next win.
func (o Override) Then(next Override) Override {
	if next.Class != nil {
		o.Class = next.Class
	}

	if next.Width != nil {
		o.Width = next.Width
	}

	if next.Scale != nil {
		o.Scale = next.Scale
	}

	if next.Format != nil {
		o.Format = next.Format
	}

	if next.Locale != nil {
		o.Locale = next.Locale
	}

	if next.Zone != nil {
		o.Zone = next.Zone
	}

	if next.Placeholder != nil {
		o.Placeholder = next.Placeholder
	}

	if next.ReadOnly != nil {
		o.ReadOnly = next.ReadOnly
	}

	if next.Converter != nil {
		o.Converter = next.Converter
	}

	return o
}

// Combine folds several layers into one, later layers winning.
func Combine(layers ...Override) Override {
	var out Override
	for _, l := range layers {
		out = out.Then(l)
	}

	return out
}

// Key returns a canonical serialization, equal for equal overrides.
func (o Override) Key() string {
	var parts []string

	add := func(k, v string) {
		parts = append(parts, k+"="+strconv.Quote(v))
	}

	if o.Class != nil {
		add("class", o.Class.String())
	}

	if o.Width != nil {
		add("width", strconv.Itoa(*o.Width))
	}

	if o.Scale != nil {
		add("scale", strconv.Itoa(*o.Scale))
	}

	if o.Format != nil {
		add("format", *o.Format)
	}

	if o.Locale != nil {
		add("locale", *o.Locale)
	}

	if o.Zone != nil {
		add("zone", *o.Zone)
	}

	if o.Placeholder != nil {
		add("placeholder", *o.Placeholder)
	}

	if o.ReadOnly != nil {
		add("readonly", strconv.FormatBool(*o.ReadOnly))
	}

	if o.Converter != nil {
		add("converter", *o.Converter)
	}

	sort.Strings(parts)

	return strings.Join(parts, ",")
}

// Class sets the classification.
func Class(c Classification) Override { return Override{Class: &c} }

// Width sets the width.
func Width(n int) Override { return Override{Width: &n} }

// Scale sets the scale.
func Scale(n int) Override { return Override{Scale: &n} }

// Format sets the text format.
func Format(f string) Override { return Override{Format: &f} }

// Locale sets the locale.
func Locale(l string) Override { return Override{Locale: &l} }

// Zone sets the time zone.
func Zone(z string) Override { return Override{Zone: &z} }

// Placeholder sets the "no value" text.
func Placeholder(p string) Override { return Override{Placeholder: &p} }

// ReadOnly marks the field read-only.
func ReadOnly() Override {
	b := true
	return Override{ReadOnly: &b}
}

// Converter names an explicit converter.
func Converter(name string) Override { return Override{Converter: &name} }
