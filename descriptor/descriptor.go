package descriptor

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/text/language"
)

var (
	ErrNegativeWidth = errors.New("width must not be negative")
	ErrNegativeScale = errors.New("scale must not be negative")
)

// Descriptor is the resolved configuration of one field use.
type Descriptor struct {
	// Name is the logical field name (or the concrete path when bound by the resolver).
	Name string
	// Class selects alignment and padding.
	Class Classification
	// Width is the number of characters the field occupies. Zero means
	// "remainder of input" on read and "converter-determined" on write.
	Width int
	// Scale is the number of implied decimal places for fixed-point values.
	Scale int
	// Format is a converter specific text format (time layout, boolean pair, ...).
	Format string
	// Locale is a BCP 47 language tag.
	Locale string
	// Zone is an IANA time zone name.
	Zone string
	// Placeholder is the text that stands for "no value".
	Placeholder string
	// ReadOnly fields are emitted on write but never assigned on read.
	ReadOnly bool
	// Target is the Go type the field holds.
	Target reflect.Type
	// Converter names an explicitly registered converter, overriding type based lookup.
	Converter string
}

// Validate checks the descriptor invariants.
func (d Descriptor) Validate() error {
	if d.Width < 0 {
		return fmt.Errorf("%s: %w", d.Name, ErrNegativeWidth)
	}

	if d.Scale < 0 {
		return fmt.Errorf("%s: %w", d.Name, ErrNegativeScale)
	}

	if d.Locale != "" {
		if _, err := language.Parse(d.Locale); err != nil {
			return fmt.Errorf("%s: invalid locale %q: %w", d.Name, d.Locale, err)
		}
	}

	return nil
}

// Language returns the parsed locale, or language.Und when none is set or it is invalid.
func (d Descriptor) Language() language.Tag {
	if d.Locale == "" {
		return language.Und
	}

	tag, err := language.Parse(d.Locale)
	if err != nil {
		return language.Und
	}

	return tag
}

// WithTarget returns a copy bound to another target type.
func (d Descriptor) WithTarget(t reflect.Type) Descriptor {
	d.Target = t
	return d
}

// WithName returns a copy carrying another name.
func (d Descriptor) WithName(name string) Descriptor {
	d.Name = name
	return d
}

// With returns a copy of d with every field set in o replaced.
func (d Descriptor) With(o Override) Descriptor {
	if o.Class != nil {
		d.Class = *o.Class
	}

	if o.Width != nil {
		d.Width = *o.Width
	}

	if o.Scale != nil {
		d.Scale = *o.Scale
	}

	if o.Format != nil {
		d.Format = *o.Format
	}

	if o.Locale != nil {
		d.Locale = *o.Locale
	}

	if o.Zone != nil {
		d.Zone = *o.Zone
	}

	if o.Placeholder != nil {
		d.Placeholder = *o.Placeholder
	}

	if o.ReadOnly != nil {
		d.ReadOnly = *o.ReadOnly
	}

	if o.Converter != nil {
		d.Converter = *o.Converter
	}

	return d
}

// Merge applies the override layers to base in order; later layers win.
// The canonical call is Merge(fieldDefault, containerOverride, typeLevelOverride).
func Merge(base Descriptor, layers ...Override) Descriptor {
	for _, o := range layers {
		base = base.With(o)
	}

	return base
}

// String renders a compact, human-readable form used in diagnostics.
func (d Descriptor) String() string {
	var sb strings.Builder

	sb.WriteString(d.Name)
	fmt.Fprintf(&sb, "{class=%s width=%d", d.Class, d.Width)

	if d.Scale != 0 {
		fmt.Fprintf(&sb, " scale=%d", d.Scale)
	}

	if d.Format != "" {
		fmt.Fprintf(&sb, " format=%q", d.Format)
	}

	if d.Placeholder != "" {
		fmt.Fprintf(&sb, " placeholder=%q", d.Placeholder)
	}

	if d.ReadOnly {
		sb.WriteString(" readonly")
	}

	if d.Target != nil {
		fmt.Fprintf(&sb, " type=%s", d.Target)
	}

	sb.WriteString("}")

	return sb.String()
}
