package convert

import (
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"

	"fixed-format/descriptor"
)

func desc(t reflect.Type, overrides ...descriptor.Override) descriptor.Descriptor {
	return descriptor.Merge(descriptor.Descriptor{Name: "f", Target: t}, overrides...)
}

func TestFit(t *testing.T) {
	tests := []struct {
		name    string
		d       descriptor.Descriptor
		text    string
		want    string
		wantErr bool
	}{
		{"exact", descriptor.Descriptor{Width: 3}, "abc", "abc", false},
		{"pad right", descriptor.Descriptor{Width: 5}, "ab", "ab   ", false},
		{"truncate", descriptor.Descriptor{Width: 2}, "abc", "ab", false},
		{"pad zeros", descriptor.Descriptor{Width: 5, Class: descriptor.ClassNumeric}, "12", "00012", false},
		{"numeric overflow", descriptor.Descriptor{Width: 2, Class: descriptor.ClassNumeric}, "123", "", true},
		{"runes", descriptor.Descriptor{Width: 3}, "äö", "äö ", false},
		{"no width", descriptor.Descriptor{}, "free", "free", false},
		{"number overflow", descriptor.Descriptor{Width: 2, Target: reflect.TypeFor[int]()}, "123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fit(tt.d, tt.text)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrOverflow)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholder(t *testing.T) {
	d := descriptor.Descriptor{Placeholder: "?"}

	assert.Equal(t, "?   ", PlaceholderText(d, 4))
	assert.True(t, IsPlaceholder(d, "?   "))
	assert.False(t, IsPlaceholder(d, " ?  "))
	assert.True(t, IsPlaceholder(descriptor.Descriptor{}, "    "))
}

type code string

func TestStringConverter(t *testing.T) {
	c := stringConverter{}
	typ := reflect.TypeFor[string]()

	tests := []struct {
		name   string
		d      descriptor.Descriptor
		value  string
		text   string
		parsed any
	}{
		{"alphanumeric", desc(typ, descriptor.Width(8)), "ACME", "ACME    ", "ACME"},
		{"numeric", desc(typ, descriptor.Width(10), descriptor.Class(descriptor.ClassNumeric)), "532013000", "0532013000", "532013000"},
		{"numeric zero", desc(typ, descriptor.Width(3), descriptor.Class(descriptor.ClassNumeric)), "0", "000", "0"},
		{"named type", desc(reflect.TypeFor[code](), descriptor.Width(3)), "DE", "DE ", code("DE")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := c.Format(tt.d, reflect.ValueOf(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			v, err := c.Parse(tt.d, text)
			require.NoError(t, err)
			require.True(t, v.IsValid())
			assert.Equal(t, tt.parsed, v.Interface())
		})
	}

	v, err := c.Parse(desc(typ, descriptor.Width(4), descriptor.Placeholder("N/A")), "N/A ")
	require.NoError(t, err)
	assert.False(t, v.IsValid(), "placeholder text is no value")

	v, err = c.Parse(desc(typ, descriptor.Width(4)), "    ")
	require.NoError(t, err)
	assert.False(t, v.IsValid(), "blank text is no value")
}

func TestIntConverter(t *testing.T) {
	tests := []struct {
		name  string
		d     descriptor.Descriptor
		value any
		text  string
	}{
		{"int64", desc(reflect.TypeFor[int64](), descriptor.Width(8)), int64(12345), "00012345"},
		{"negative", desc(reflect.TypeFor[int64](), descriptor.Width(6)), int64(-123), "-00123"},
		{"int16", desc(reflect.TypeFor[int16](), descriptor.Width(4)), int16(300), "0300"},
		{"uint8", desc(reflect.TypeFor[uint8](), descriptor.Width(3)), uint8(7), "007"},
		{"scaled stays unscaled", desc(reflect.TypeFor[int](), descriptor.Width(7), descriptor.Scale(2)), 12345, "0012345"},
		{"alphanumeric", desc(reflect.TypeFor[int](), descriptor.Width(4), descriptor.Class(descriptor.ClassAlphanumeric)), 42, "42  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := byKind(reflect.TypeOf(tt.value))
			require.True(t, ok)

			text, err := c.Format(tt.d, reflect.ValueOf(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			v, err := c.Parse(tt.d, text)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v.Interface())
		})
	}

	_, err := intConverter{}.Parse(desc(reflect.TypeFor[int8](), descriptor.Width(3)), "300")
	require.Error(t, err)

	_, err = uintConverter{}.Parse(desc(reflect.TypeFor[uint](), descriptor.Width(3)), "1x3")
	require.Error(t, err)
}

func TestDecimalConverter(t *testing.T) {
	c := decimalConverter{}

	d := desc(reflect.TypeFor[float64](), descriptor.Width(8), descriptor.Scale(2))

	text, err := c.Format(d, reflect.ValueOf(12.34))
	require.NoError(t, err)
	assert.Equal(t, "00001234", text)

	v, err := c.Parse(d, text)
	require.NoError(t, err)
	assert.InDelta(t, 12.34, v.Float(), 1e-12)

	_, err = c.Format(d, reflect.ValueOf(12.345))
	require.ErrorIs(t, err, ErrInexact)

	text, err = c.Format(d, reflect.ValueOf(-1.5))
	require.NoError(t, err)
	assert.Equal(t, "-0000150", text)

	rd := desc(reflect.TypeFor[*big.Rat](), descriptor.Width(6), descriptor.Scale(3))

	text, err = c.Format(rd, reflect.ValueOf(big.NewRat(5, 4)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "001250", text)

	v, err = c.Parse(rd, text)
	require.NoError(t, err)

	r := v.Interface().(big.Rat)
	assert.Equal(t, "5/4", r.RatString())
}

func TestDecimalConverter_Separator(t *testing.T) {
	c := decimalConverter{}

	tests := []struct {
		name   string
		locale string
		text   string
	}{
		{"comma locale", "de-DE", "00012,50"},
		{"dot locale", "en-US", "00012.50"},
		{"no locale", "", "00012.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := desc(reflect.TypeFor[float64](), descriptor.Width(8), descriptor.Scale(2),
				descriptor.Format(FormatSeparator), descriptor.Locale(tt.locale))

			text, err := c.Format(d, reflect.ValueOf(12.5))
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			v, err := c.Parse(d, text)
			require.NoError(t, err)
			assert.InDelta(t, 12.5, v.Float(), 1e-12)
		})
	}

	d := desc(reflect.TypeFor[float64](), descriptor.Width(6), descriptor.Scale(2), descriptor.Format(FormatSeparator))

	_, err := c.Format(d, reflect.ValueOf(1.235))
	require.ErrorIs(t, err, ErrInexact)

	_, err = c.Parse(d, "01.235")
	require.ErrorIs(t, err, ErrInexact)
}

func TestBoolConverter(t *testing.T) {
	c := boolConverter{}
	typ := reflect.TypeFor[bool]()

	text, err := c.Format(desc(typ, descriptor.Width(1)), reflect.ValueOf(true))
	require.NoError(t, err)
	assert.Equal(t, "1", text)

	jn := desc(typ, descriptor.Width(1), descriptor.Format("J|N"))

	text, err = c.Format(jn, reflect.ValueOf(false))
	require.NoError(t, err)
	assert.Equal(t, "N", text)

	v, err := c.Parse(jn, "J")
	require.NoError(t, err)
	assert.Equal(t, true, v.Interface())

	_, err = c.Parse(jn, "X")
	require.Error(t, err)

	_, err = c.Format(desc(typ, descriptor.Format("YES")), reflect.ValueOf(true))
	require.Error(t, err)
}

func TestTemporalConverters(t *testing.T) {
	day := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		c     Converter
		d     descriptor.Descriptor
		value any
		text  string
	}{
		{"date cut from default layout", timeConverter{}, desc(reflect.TypeFor[time.Time](), descriptor.Width(8)),
			time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "20240305"},
		{"full default layout", timeConverter{}, desc(reflect.TypeFor[time.Time](), descriptor.Width(14)), day, "20240305143000"},
		{"explicit layout", timeConverter{}, desc(reflect.TypeFor[time.Time](), descriptor.Width(6), descriptor.Format("060102")),
			time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), "240305"},
		{"duration seconds", durationConverter{}, desc(reflect.TypeFor[time.Duration](), descriptor.Width(4)), 90 * time.Second, "0090"},
		{"duration minutes", durationConverter{}, desc(reflect.TypeFor[time.Duration](), descriptor.Width(3), descriptor.Format("m")),
			2 * time.Hour, "120"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.c.Format(tt.d, reflect.ValueOf(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			v, err := tt.c.Parse(tt.d, text)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v.Interface())
		})
	}

	_, err := durationConverter{}.Format(desc(reflect.TypeFor[time.Duration](), descriptor.Format("m")),
		reflect.ValueOf(90*time.Second))
	require.Error(t, err)

	v, err := timeConverter{}.Parse(desc(reflect.TypeFor[time.Time](), descriptor.Width(8)), "00000000")
	require.NoError(t, err)
	assert.False(t, v.IsValid())
}

func TestScalarConverters(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	tests := []struct {
		name  string
		c     Converter
		d     descriptor.Descriptor
		value any
		text  string
	}{
		{"char", charConverter{}, desc(reflect.TypeFor[Char](), descriptor.Width(1)), Char('X'), "X"},
		{"uuid", uuidConverter{}, desc(reflect.TypeFor[uuid.UUID](), descriptor.Width(36)), id, id.String()},
		{"uuid hex", uuidConverter{}, desc(reflect.TypeFor[uuid.UUID](), descriptor.Width(32), descriptor.Class(descriptor.ClassBinary)),
			id, "6BA7B8109DAD11D180B400C04FD430C8"},
		{"currency", currencyConverter{}, desc(reflect.TypeFor[currency.Unit](), descriptor.Width(3)), currency.EUR, "EUR"},
		{"bytes", bytesConverter{}, desc(reflect.TypeFor[[]byte](), descriptor.Width(4)), []byte{0xAB, 0x01}, "AB01"},
		{"byte array", bytesConverter{}, desc(reflect.TypeFor[[2]byte](), descriptor.Width(4)), [2]byte{0x0F, 0xF0}, "0FF0"},
		{"raw bytes", bytesConverter{}, desc(reflect.TypeFor[[]byte](), descriptor.Width(4), descriptor.Class(descriptor.ClassAlphanumeric)),
			[]byte("ab"), "ab  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := tt.c.Format(tt.d, reflect.ValueOf(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			v, err := tt.c.Parse(tt.d, text)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v.Interface())
		})
	}

	w, ok := WidthOf(bytesConverter{}, desc(reflect.TypeFor[[3]byte]()))
	require.True(t, ok)
	assert.Equal(t, 6, w)

	_, err := currencyConverter{}.Parse(desc(reflect.TypeFor[currency.Unit]()), "XX1")
	require.Error(t, err)
}
