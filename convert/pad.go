package convert

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fixed-format/descriptor"
	"fixed-format/subtype"
)

// ErrOverflow reports a numeric value wider than its field.
var ErrOverflow = errors.New("value does not fit the field width")

// PadLeft left-pads s with pad up to width runes. Longer values are returned
// unchanged.
func PadLeft(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if width <= n {
		return s
	}

	return strings.Repeat(string(pad), width-n) + s
}

// PadRight right-pads s with pad up to width runes. Longer values are returned
// unchanged.
func PadRight(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if width <= n {
		return s
	}

	return s + strings.Repeat(string(pad), width-n)
}

// Truncate cuts s to at most width runes.
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}

	return string([]rune(s)[:width])
}

// Fit makes text exactly d.Width runes wide. Numeric fields are aligned right
// with zeros; others are aligned left with spaces. Text too wide is truncated
// unless the field is numeric or holds a number, which is an overflow. A zero
// width leaves text as it is.
func Fit(d descriptor.Descriptor, text string) (string, error) {
	if d.Width <= 0 {
		return text, nil
	}

	n := utf8.RuneCountInString(text)

	switch {
	case n == d.Width:
		return text, nil
	case n < d.Width && d.Class == descriptor.ClassNumeric:
		return PadLeft(text, d.Width, '0'), nil
	case n < d.Width:
		return PadRight(text, d.Width, ' '), nil
	case d.Class == descriptor.ClassNumeric || KindOf(subtype.Base(d.Target)).IsNumber():
		return "", fmt.Errorf("%w: %q is %d characters wide, field has %d", ErrOverflow, text, n, d.Width)
	default:
		return Truncate(text, d.Width), nil
	}
}

// PlaceholderText is the text written for an absent value: the placeholder
// padded with spaces and cut to the width.
func PlaceholderText(d descriptor.Descriptor, width int) string {
	if width <= 0 {
		return d.Placeholder
	}

	return Truncate(PadRight(d.Placeholder, width, ' '), width)
}

// IsPlaceholder reports whether raw field text stands for "no value": it
// equals the placeholder once trailing spaces are removed.
func IsPlaceholder(d descriptor.Descriptor, raw string) bool {
	return strings.TrimRight(raw, " ") == d.Placeholder
}

// zeroPadSigned renders digits with an optional minus sign, zero padded to
// width so that "-123" at width 6 becomes "-00123".
func zeroPadSigned(digits string, negative bool, width int) string {
	if !negative {
		return PadLeft(digits, width, '0')
	}

	return "-" + PadLeft(digits, width-1, '0')
}
