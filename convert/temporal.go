package convert

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"fixed-format/descriptor"
)

// DefaultTimeLayout is cut to the field width when no format is given, so a
// width of 8 means "20060102".
const DefaultTimeLayout = "20060102150405"

func timeLayout(d descriptor.Descriptor) string {
	if d.Format != "" {
		return d.Format
	}

	if d.Width > 0 && d.Width < len(DefaultTimeLayout) {
		return DefaultTimeLayout[:d.Width]
	}

	return DefaultTimeLayout
}

func location(d descriptor.Descriptor) (*time.Location, error) {
	if d.Zone == "" {
		return time.UTC, nil
	}

	return time.LoadLocation(d.Zone)
}

type timeConverter struct{}

func (timeConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	loc, err := location(d)
	if err != nil {
		return "", err
	}

	t := v.Interface().(time.Time)
	if t.IsZero() {
		return PlaceholderText(d, d.Width), nil
	}

	return PadRight(t.In(loc).Format(timeLayout(d)), d.Width, ' '), nil
}

func (timeConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimRight(text, " ")
	if s == d.Placeholder || strings.Trim(s, "0") == "" {
		return reflect.Value{}, nil
	}

	loc, err := location(d)
	if err != nil {
		return reflect.Value{}, err
	}

	t, err := time.ParseInLocation(timeLayout(d), s, loc)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(t), nil
}

var durationUnits = map[string]time.Duration{
	"ns": time.Nanosecond,
	"us": time.Microsecond,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
}

func durationUnit(d descriptor.Descriptor) (time.Duration, error) {
	if d.Format == "" {
		return time.Second, nil
	}

	u, ok := durationUnits[d.Format]
	if !ok {
		return 0, fmt.Errorf("unknown duration unit %q", d.Format)
	}

	return u, nil
}

// durationConverter writes a whole number of the unit named by the format.
type durationConverter struct{}

func (durationConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	unit, err := durationUnit(d)
	if err != nil {
		return "", err
	}

	dur := time.Duration(v.Int())
	if dur%unit != 0 {
		return "", fmt.Errorf("%s is not a whole number of %s", dur, unit)
	}

	n := int64(dur / unit)

	return zeroPadSigned(strconv.FormatUint(absInt(n), 10), n < 0, d.Width), nil
}

func (durationConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return reflect.Value{}, nil
	}

	unit, err := durationUnit(d)
	if err != nil {
		return reflect.Value{}, err
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(time.Duration(n) * unit), nil
}
