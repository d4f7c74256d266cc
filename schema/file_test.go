package schema

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixed-format/descriptor"
	"fixed-format/subtype"
)

type bban interface{ isBBAN() }

type deBBAN struct {
	BankCode      string
	AccountNumber string
}

func (deBBAN) isBBAN() {}

type frBBAN struct {
	BankCode string
}

func (frBBAN) isBBAN() {}

type iban struct {
	CountryCode string
	CheckDigits string
	BBAN        bban
}

const ibanYAML = `
types:
  - name: IBAN
    pattern: "${countryCode}${checkDigits:2}${BBAN}"
    fields:
      checkDigits: {class: numeric, placeholder: "00"}
  - name: BBAN
    discriminator: {field: countryCode, width: 2}
    subtypes:
      DE: DEBBAN
      FR: FRBBAN
  - name: DEBBAN
    pattern: "${bankCode}${accountNumber}"
    fields:
      bankCode: 8
      accountNumber: {width: 10, class: n}
  - name: FRBBAN
    pattern: "${bankCode}"
    fields:
      bankCode: 5
`

func bindIBAN(t *testing.T, reg *Registry) {
	t.Helper()

	require.NoError(t, reg.Bind("IBAN", reflect.TypeFor[iban]()))
	require.NoError(t, reg.Bind("BBAN", reflect.TypeFor[bban]()))
	require.NoError(t, reg.Bind("DEBBAN", reflect.TypeFor[deBBAN]()))
	require.NoError(t, reg.Bind("FRBBAN", reflect.TypeFor[frBBAN]()))
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(ibanYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Types, 4)

	de := f.Types[2]
	assert.Equal(t, 8, *de.Fields["bankCode"].Width)
	assert.Equal(t, descriptor.ClassNumeric, *de.Fields["accountNumber"].Class)

	require.NotNil(t, f.Types[1].Discriminator)
	assert.Equal(t, subtype.Discriminator{Field: "countryCode", Width: 2}, *f.Types[1].Discriminator)

	assert.True(t, f.Validate().IsValid())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("types:\n  - name: X\n    fields:\n      a: [1]\n"))
	require.Error(t, err)
}

func TestFile_Validate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code string
	}{
		{"version", "version: \"2\"\ntypes: []\n", "unsupported_version"},
		{"missing name", "types:\n  - pattern: x\n", "missing_name"},
		{"duplicate", "types:\n  - name: A\n  - name: A\n", "duplicate_type"},
		{"pattern", "types:\n  - name: A\n    pattern: \"${a\"\n", "invalid_pattern"},
		{"negative width", "types:\n  - name: A\n    fields: {a: -1}\n", "invalid_override"},
		{"subtypes without discriminator", "types:\n  - name: A\n    subtypes: {X: B}\n", "missing_discriminator"},
		{"bad discriminator", "types:\n  - name: A\n    discriminator: {field: k, width: 0}\n    subtypes: {X: B}\n", "invalid_discriminator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			res := f.Validate()
			require.True(t, res.HasErrors())
			assert.Equal(t, tt.code, res.Errors[0].Code)
		})
	}
}

func TestFile_Apply(t *testing.T) {
	f, err := Parse([]byte(ibanYAML))
	require.NoError(t, err)

	reg := NewRegistry()
	sub := subtype.NewRegistry()
	bindIBAN(t, reg)

	require.NoError(t, f.Apply(reg, sub))

	p, ok := reg.Pattern(reflect.TypeFor[deBBAN]())
	require.True(t, ok)
	assert.Equal(t, "${bankCode}${accountNumber}", p)

	idx, err := reg.Index(reflect.TypeFor[deBBAN]())
	require.NoError(t, err)

	acct, _ := idx.Field("accountNumber")
	assert.Equal(t, 10, acct.Descriptor.Width)
	assert.Equal(t, descriptor.ClassNumeric, acct.Descriptor.Class)

	got, err := sub.Select(reflect.TypeFor[bban](), "FR1234")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[frBBAN](), got)
}

func TestFile_ApplyUnbound(t *testing.T) {
	f, err := Parse([]byte(ibanYAML))
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.Bind("IBAN", reflect.TypeFor[iban]()))
	require.NoError(t, reg.Bind("BBAN", reflect.TypeFor[bban]()))
	require.NoError(t, reg.Bind("DEBBAN", reflect.TypeFor[deBBAN]()))

	err = f.Apply(reg, subtype.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `type name "FRBBAN" is not bound`)
	assert.Contains(t, err.Error(), "did you mean")
	assert.Contains(t, err.Error(), "DEBBAN?")
}

func TestMarshal_WidthShorthand(t *testing.T) {
	f := &File{
		Version: "1",
		Types: []TypeDef{{
			Name: "DEBBAN",
			Fields: map[string]FieldOverride{
				"bankCode":      {Override: descriptor.Width(8)},
				"accountNumber": {Override: descriptor.Combine(descriptor.Width(10), descriptor.Class(descriptor.ClassNumeric))},
			},
		}},
	}

	data, err := Marshal(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bankCode: 8")
	assert.Contains(t, string(data), "class: numeric")

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10, *loaded.Types[0].Fields["accountNumber"].Width)
	assert.Equal(t, descriptor.ClassNumeric, *loaded.Types[0].Fields["accountNumber"].Class)
}
