package convert

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"fixed-format/descriptor"
	"fixed-format/subtype"
)

var builtins = map[reflect.Type]Converter{
	reflect.TypeFor[string]():        stringConverter{},
	reflect.TypeFor[bool]():          boolConverter{},
	reflect.TypeFor[int]():           intConverter{},
	reflect.TypeFor[int8]():          intConverter{},
	reflect.TypeFor[int16]():         intConverter{},
	reflect.TypeFor[int32]():         intConverter{},
	reflect.TypeFor[int64]():         intConverter{},
	reflect.TypeFor[uint]():          uintConverter{},
	reflect.TypeFor[uint8]():         uintConverter{},
	reflect.TypeFor[uint16]():        uintConverter{},
	reflect.TypeFor[uint32]():        uintConverter{},
	reflect.TypeFor[uint64]():        uintConverter{},
	reflect.TypeFor[float32]():       decimalConverter{},
	reflect.TypeFor[float64]():       decimalConverter{},
	reflect.TypeFor[big.Rat]():       decimalConverter{},
	reflect.TypeFor[big.Int]():       bigIntConverter{},
	reflect.TypeFor[Char]():          charConverter{},
	reflect.TypeFor[time.Time]():     timeConverter{},
	reflect.TypeFor[time.Duration](): durationConverter{},
	reflect.TypeFor[uuid.UUID]():     uuidConverter{},
	reflect.TypeFor[currency.Unit](): currencyConverter{},
	reflect.TypeFor[[]byte]():        bytesConverter{},
	reflect.TypeFor[Bitmap]():        bitmapConverter{},
}

// byKind returns the built-in for a named type's underlying kind.
func byKind(t reflect.Type) (Converter, bool) {
	if isByteArray(t) || t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return bytesConverter{}, true
	}

	switch k := KindOf(t); {
	case k == KindString:
		return stringConverter{}, true
	case k == KindBool:
		return boolConverter{}, true
	case k.IsSigned():
		return intConverter{}, true
	case k.IsUnsigned():
		return uintConverter{}, true
	case k.IsFloat():
		return decimalConverter{}, true
	}

	return nil, false
}

// convertTo adapts a parsed value to the descriptor's target, so that named
// types like `type Code string` receive their own type.
func convertTo(d descriptor.Descriptor, v reflect.Value) reflect.Value {
	t := targetOr(d, v.Type())
	if v.Type() == t || t.Kind() != v.Kind() {
		return v
	}

	return v.Convert(t)
}

// stringConverter pads alphanumeric text on the right. Numeric classified
// strings are zero padded on the left and lose their leading zeros on parse.
type stringConverter struct{}

func (stringConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	s := v.String()

	if d.Class == descriptor.ClassNumeric {
		return PadLeft(s, d.Width, '0'), nil
	}

	return PadRight(s, d.Width, ' '), nil
}

func (stringConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimRight(text, " ")
	if s == d.Placeholder {
		return reflect.Value{}, nil
	}

	if d.Class == descriptor.ClassNumeric {
		s = strings.TrimLeft(strings.TrimSpace(s), "0")
		if s == "" {
			s = "0"
		}
	}

	return convertTo(d, reflect.ValueOf(s)), nil
}

// intConverter renders signed integers as unscaled digits. The scale of the
// descriptor only documents where the decimal point sits.
type intConverter struct{}

func (intConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	n := v.Int()
	if d.Class == descriptor.ClassAlphanumeric {
		return PadRight(strconv.FormatInt(n, 10), d.Width, ' '), nil
	}

	digits := strconv.FormatUint(absInt(n), 10)

	return zeroPadSigned(digits, n < 0, d.Width), nil
}

func (intConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return reflect.Value{}, nil
	}

	t := targetOr(d, reflect.TypeFor[int64]())
	if !KindOf(t).IsSigned() {
		t = reflect.TypeFor[int64]()
	}

	n, err := strconv.ParseInt(s, 10, KindOf(t).Bits())
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(n).Convert(t), nil
}

func absInt(n int64) uint64 {
	if n < 0 {
		return uint64(-(n + 1)) + 1
	}

	return uint64(n)
}

type uintConverter struct{}

func (uintConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	s := strconv.FormatUint(v.Uint(), 10)
	if d.Class == descriptor.ClassAlphanumeric {
		return PadRight(s, d.Width, ' '), nil
	}

	return PadLeft(s, d.Width, '0'), nil
}

func (uintConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return reflect.Value{}, nil
	}

	t := targetOr(d, reflect.TypeFor[uint64]())
	if !KindOf(t).IsUnsigned() {
		t = reflect.TypeFor[uint64]()
	}

	n, err := strconv.ParseUint(s, 10, KindOf(t).Bits())
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(n).Convert(t), nil
}

// boolConverter writes the true or false text of the format "T|F"; the
// default is "1|0".
type boolConverter struct{}

func boolTexts(d descriptor.Descriptor) (string, string, error) {
	if d.Format == "" {
		return "1", "0", nil
	}

	t, f, ok := strings.Cut(d.Format, "|")
	if !ok || t == f {
		return "", "", fmt.Errorf("boolean format %q must be \"true|false\" texts", d.Format)
	}

	return t, f, nil
}

func (boolConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	t, f, err := boolTexts(d)
	if err != nil {
		return "", err
	}

	if v.Bool() {
		return PadRight(t, d.Width, ' '), nil
	}

	return PadRight(f, d.Width, ' '), nil
}

func (boolConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	t, f, err := boolTexts(d)
	if err != nil {
		return reflect.Value{}, err
	}

	s := strings.TrimRight(text, " ")

	switch s {
	case strings.TrimRight(t, " "):
		return convertTo(d, reflect.ValueOf(true)), nil
	case strings.TrimRight(f, " "):
		return convertTo(d, reflect.ValueOf(false)), nil
	}

	return reflect.Value{}, fmt.Errorf("%q is neither %q nor %q", s, t, f)
}

// targetOr returns the pointer-free target of d, or fallback when d has none.
func targetOr(d descriptor.Descriptor, fallback reflect.Type) reflect.Type {
	if t := subtype.Base(d.Target); t != nil && t.Kind() != reflect.Interface {
		return t
	}

	return fallback
}
