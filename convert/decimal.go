package convert

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"fixed-format/descriptor"
)

// FormatSeparator makes the decimal converter write an explicit decimal
// separator instead of an implied one.
const FormatSeparator = "separator"

var ErrInexact = errors.New("value is not representable at the declared scale")

var ratType = reflect.TypeFor[big.Rat]()

// commaLocales write a decimal comma.
var commaLocales = map[language.Base]bool{}

func init() {
	for _, s := range []string{"de", "fr", "es", "it", "pt", "nl", "ru", "pl", "tr", "da", "sv", "nb", "fi", "cs"} {
		commaLocales[language.MustParseBase(s)] = true
	}
}

// decimalSeparator returns the separator of the descriptor's locale.
func decimalSeparator(d descriptor.Descriptor) string {
	base, conf := d.Language().Base()
	if conf != language.No && commaLocales[base] {
		return ","
	}

	return "."
}

// decimalConverter handles floats and big.Rat with the fixed-point rule: the
// value times 10^scale must be an integer, which is written zero padded.
// Parsing divides the integer by 10^scale.
type decimalConverter struct{}

func (decimalConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	r, err := toRat(v)
	if err != nil {
		return "", err
	}

	scaled := new(big.Rat).Mul(r, pow10(d.Scale))
	if !scaled.IsInt() {
		return "", fmt.Errorf("%w: %s at scale %d", ErrInexact, r.RatString(), d.Scale)
	}

	if d.Format == FormatSeparator {
		text := r.FloatString(d.Scale)
		if d.Scale > 0 {
			text = strings.Replace(text, ".", decimalSeparator(d), 1)
		}

		neg := strings.HasPrefix(text, "-")

		return zeroPadSigned(strings.TrimPrefix(text, "-"), neg, d.Width), nil
	}

	n := scaled.Num()
	digits := new(big.Int).Abs(n).String()

	if d.Class == descriptor.ClassAlphanumeric {
		return PadRight(n.String(), d.Width, ' '), nil
	}

	return zeroPadSigned(digits, n.Sign() < 0, d.Width), nil
}

func (decimalConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return reflect.Value{}, nil
	}

	r := new(big.Rat)

	if d.Format == FormatSeparator {
		s = strings.Replace(s, decimalSeparator(d), ".", 1)
		if _, ok := r.SetString(trimZeros(s)); !ok {
			return reflect.Value{}, fmt.Errorf("%q is not a decimal number", s)
		}

		if !new(big.Rat).Mul(r, pow10(d.Scale)).IsInt() {
			return reflect.Value{}, fmt.Errorf("%w: %q at scale %d", ErrInexact, s, d.Scale)
		}
	} else {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%q is not an unscaled integer", s)
		}

		r.SetFrac(n, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil))
	}

	return fromRat(targetOr(d, reflect.TypeFor[float64]()), r)
}

func toRat(v reflect.Value) (*big.Rat, error) {
	switch {
	case v.Type() == ratType:
		r := new(big.Rat)
		if v.CanAddr() {
			return r.Set(v.Addr().Interface().(*big.Rat)), nil
		}

		x := v.Interface().(big.Rat)

		return r.Set(&x), nil
	case v.CanFloat():
		// The shortest decimal text is what the caller wrote, so 12.34
		// stays exactly 1234/100.
		r, ok := new(big.Rat).SetString(strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits()))
		if !ok {
			return nil, fmt.Errorf("%v is not a finite number", v.Float())
		}

		return r, nil
	case v.CanInt():
		return new(big.Rat).SetInt64(v.Int()), nil
	}

	return nil, fmt.Errorf("decimal converter cannot format %s", v.Type())
}

func fromRat(t reflect.Type, r *big.Rat) (reflect.Value, error) {
	switch {
	case t == ratType:
		return reflect.ValueOf(r).Elem(), nil
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		f, _ := r.Float64()
		return reflect.ValueOf(f).Convert(t), nil
	}

	return reflect.Value{}, fmt.Errorf("decimal converter cannot parse into %s", t)
}

// trimZeros drops leading zeros of a signed decimal text.
func trimZeros(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	s = strings.TrimLeft(s, "0")
	if s == "" || s[0] == '.' {
		s = "0" + s
	}

	return sign + s
}

func pow10(scale int) *big.Rat {
	return new(big.Rat).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(scale)), nil))
}

// bigIntConverter writes arbitrary precision integers as unscaled digits.
type bigIntConverter struct{}

func (bigIntConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	var n big.Int
	if v.CanAddr() {
		n.Set(v.Addr().Interface().(*big.Int))
	} else {
		x := v.Interface().(big.Int)
		n.Set(&x)
	}

	if d.Class == descriptor.ClassAlphanumeric {
		return PadRight(n.String(), d.Width, ' '), nil
	}

	return zeroPadSigned(new(big.Int).Abs(&n).String(), n.Sign() < 0, d.Width), nil
}

func (bigIntConverter) Parse(_ descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return reflect.Value{}, nil
	}

	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%q is not an integer", s)
	}

	return reflect.ValueOf(n).Elem(), nil
}
