package convert

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/currency"

	"fixed-format/descriptor"
)

// Char is a single character field.
type Char rune

func (c Char) String() string { return string(c) }

type charConverter struct{}

func (charConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	return PadRight(string(rune(v.Int())), d.Width, ' '), nil
}

func (charConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	if IsPlaceholder(d, text) {
		return reflect.Value{}, nil
	}

	r, _ := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return reflect.Value{}, fmt.Errorf("%q is not valid UTF-8", text)
	}

	return reflect.ValueOf(Char(r)), nil
}

// uuidConverter writes the canonical 36 character form, or 32 hex digits
// when the field is numeric or binary.
type uuidConverter struct{}

func (uuidConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	id := v.Interface().(uuid.UUID)

	if d.Class == descriptor.ClassNumeric || d.Class == descriptor.ClassBinary {
		return PadRight(strings.ToUpper(hex.EncodeToString(id[:])), d.Width, ' '), nil
	}

	return PadRight(id.String(), d.Width, ' '), nil
}

func (uuidConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" || s == d.Placeholder {
		return reflect.Value{}, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(id), nil
}

func (uuidConverter) IntrinsicWidth(d descriptor.Descriptor) (int, bool) {
	if d.Class == descriptor.ClassNumeric || d.Class == descriptor.ClassBinary {
		return 32, true
	}

	return 36, true
}

// currencyConverter writes ISO 4217 codes.
type currencyConverter struct{}

func (currencyConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	u := v.Interface().(currency.Unit)
	if u == (currency.Unit{}) {
		return PlaceholderText(d, d.Width), nil
	}

	return PadRight(u.String(), d.Width, ' '), nil
}

func (currencyConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" || s == d.Placeholder {
		return reflect.Value{}, nil
	}

	u, err := currency.ParseISO(s)
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(u), nil
}

func (currencyConverter) IntrinsicWidth(descriptor.Descriptor) (int, bool) {
	return 3, true
}

// bytesConverter handles []byte and byte arrays as upper-case hex. An
// alphanumeric field stores the raw bytes as text.
type bytesConverter struct{}

func rawBytes(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}

	b := make([]byte, v.Len())
	reflect.Copy(reflect.ValueOf(b), v)

	return b
}

func (bytesConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	b := rawBytes(v)

	if d.Class == descriptor.ClassAlphanumeric {
		return PadRight(string(b), d.Width, ' '), nil
	}

	return PadRight(strings.ToUpper(hex.EncodeToString(b)), d.Width, ' '), nil
}

func (bytesConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	var b []byte

	if d.Class == descriptor.ClassAlphanumeric {
		s := strings.TrimRight(text, " ")
		if s == d.Placeholder {
			return reflect.Value{}, nil
		}

		b = []byte(s)
	} else {
		s := strings.TrimSpace(text)
		if s == "" {
			return reflect.Value{}, nil
		}

		var err error
		if b, err = hex.DecodeString(s); err != nil {
			return reflect.Value{}, err
		}
	}

	t := targetOr(d, reflect.TypeFor[[]byte]())
	if t.Kind() != reflect.Array {
		return reflect.ValueOf(b).Convert(t), nil
	}

	if len(b) > t.Len() {
		return reflect.Value{}, fmt.Errorf("%d bytes do not fit %s", len(b), t)
	}

	arr := reflect.New(t).Elem()
	reflect.Copy(arr, reflect.ValueOf(b))

	return arr, nil
}

func (bytesConverter) IntrinsicWidth(d descriptor.Descriptor) (int, bool) {
	t := targetOr(d, nil)
	if t == nil || t.Kind() != reflect.Array {
		return 0, false
	}

	if d.Class == descriptor.ClassAlphanumeric {
		return t.Len(), true
	}

	return 2 * t.Len(), true
}

// isByteArray matches [N]byte types, which the registry cannot key one by one.
func isByteArray(t reflect.Type) bool {
	return t.Kind() == reflect.Array && t.Elem().Kind() == reflect.Uint8
}
