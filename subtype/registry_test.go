package subtype

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fferrors "fixed-format/errors"
)

type bban interface{ bban() }

type deBBAN struct{ BankCode, AccountNumber string }

func (deBBAN) bban() {}

type frBBAN struct{ BankCode, BranchCode string }

func (*frBBAN) bban() {}

// ATM style hierarchy: message class at offset 0, sub class at offset 2.
type message interface{ msg() }

type unsolicited struct{ Text string }

func (unsolicited) msg() {}

type solicited interface {
	message
	solicitedMsg()
}

type statusReady struct{ Luno string }

func (statusReady) msg()          {}
func (statusReady) solicitedMsg() {}

type statusError struct{ Luno string }

func (statusError) msg()          {}
func (statusError) solicitedMsg() {}

// legacyAccount has the method set of bban.
type legacyAccount interface{ bban() }

type header struct{ Raw string }

type headerV2 struct{ header }

func newBankRegistry(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry()
	require.NoError(t, Declare[bban](r, Discriminator{Field: "countryCode", Width: 2, Offset: 0}))
	require.NoError(t, Register[bban, deBBAN](r, "DE"))
	require.NoError(t, Register[bban, frBBAN](r, "FR"))

	return r
}

func newATMRegistry(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry()
	require.NoError(t, Declare[message](r, Discriminator{Field: "messageClass", Width: 1, Offset: 0}))
	require.NoError(t, Declare[solicited](r, Discriminator{Field: "statusDescriptor", Width: 1, Offset: 2}))
	require.NoError(t, Register[message, unsolicited](r, "1"))
	require.NoError(t, Register[message, solicited](r, "2"))
	require.NoError(t, Register[solicited, statusReady](r, "9"))
	require.NoError(t, Register[solicited, statusError](r, "8"))

	return r
}

func TestSelect(t *testing.T) {
	r := newBankRegistry(t)

	got, err := r.Select(reflect.TypeFor[bban](), "DE89370400440532013000")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[deBBAN](), got)

	got, err = r.Select(reflect.TypeFor[bban](), "FR1420041010050500013M02606")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[frBBAN](), got)
}

func TestSelect_AbstractWithoutMatch(t *testing.T) {
	r := newBankRegistry(t)

	for _, record := range []string{"GB29NWBK60161331926819", "D"} {
		_, err := r.Select(reflect.TypeFor[bban](), record)
		require.Error(t, err)
		assert.True(t, fferrors.IsSchema(err))
		assert.Contains(t, err.Error(), "known: DE, FR")
	}
}

func TestSelect_StructFallsBackToItself(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, Declare[header](r, Discriminator{Field: "version", Width: 2}))
	require.NoError(t, Register[header, headerV2](r, "02"))

	got, err := r.Select(reflect.TypeFor[header](), "02xxx")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[headerV2](), got)

	got, err = r.Select(reflect.TypeFor[header](), "01xxx")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[header](), got)
}

func TestSelect_Transitive(t *testing.T) {
	r := newATMRegistry(t)
	msg := reflect.TypeFor[message]()

	tests := []struct {
		name   string
		record string
		want   reflect.Type
	}{
		{name: "unsolicited", record: "1\x1c000", want: reflect.TypeFor[unsolicited]()},
		{name: "solicited ready", record: "2\x1c9000", want: reflect.TypeFor[statusReady]()},
		{name: "solicited error", record: "2\x1c8000", want: reflect.TypeFor[statusError]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Select(msg, tt.record)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := r.Select(msg, "2\x1c7000")
	require.Error(t, err, "solicited is abstract and has no variant 7")
}

func TestTagFor(t *testing.T) {
	r := newATMRegistry(t)

	tag, ok := r.TagFor(reflect.TypeFor[statusError](), "messageClass")
	require.True(t, ok)
	assert.Equal(t, "2", tag)

	tag, ok = r.TagFor(reflect.TypeFor[statusError](), "statusDescriptor")
	require.True(t, ok)
	assert.Equal(t, "8", tag)

	tag, ok = r.TagFor(reflect.TypeFor[*statusReady](), "")
	require.True(t, ok)
	assert.Equal(t, "9", tag)

	_, ok = r.TagFor(reflect.TypeFor[unsolicited](), "statusDescriptor")
	assert.False(t, ok)

	ancestry := r.Ancestry(reflect.TypeFor[statusReady]())
	require.Len(t, ancestry, 2)
	assert.Equal(t, reflect.TypeFor[solicited](), ancestry[0].Super)
	assert.Equal(t, reflect.TypeFor[message](), ancestry[1].Super)
}

func TestRegister_Errors(t *testing.T) {
	r := newBankRegistry(t)
	super := reflect.TypeFor[bban]()

	require.ErrorIs(t, r.Register(super, "DE", reflect.TypeFor[frBBAN]()), ErrDuplicateValue)
	require.ErrorIs(t, r.Register(super, "DEU", reflect.TypeFor[frBBAN]()), ErrValueWidth)
	require.ErrorIs(t, r.Register(super, "XX", reflect.TypeFor[header]()), ErrIncompatibleType)
	require.ErrorIs(t, r.Register(reflect.TypeFor[header](), "XX", reflect.TypeFor[headerV2]()), ErrNotDeclared)
	require.ErrorIs(t, r.Declare(super, Discriminator{Field: "x", Width: 1}, nil), ErrAlreadyDeclared)
	require.ErrorIs(t, r.Declare(reflect.TypeFor[header](), Discriminator{Field: "x"}, nil), ErrInvalidDiscriminator)

	assert.True(t, r.IsSuper(super))

	d, ok := r.Discriminator(super)
	require.True(t, ok)
	assert.Equal(t, 2, d.Width)
}

func TestRegister_OneSupertypePerVariant(t *testing.T) {
	r := newBankRegistry(t)
	require.NoError(t, Declare[legacyAccount](r, Discriminator{Field: "kind", Width: 2}))

	err := Register[legacyAccount, deBBAN](r, "LA")
	require.ErrorIs(t, err, ErrAlreadyRegistered)
	require.ErrorIs(t, Register[bban, deBBAN](r, "XY"), ErrAlreadyRegistered)

	ancestry := r.Ancestry(reflect.TypeFor[deBBAN]())
	require.Len(t, ancestry, 1)
	assert.Equal(t, reflect.TypeFor[bban](), ancestry[0].Super)
	assert.Equal(t, "DE", ancestry[0].Value)
}

func TestInstantiateAndBox(t *testing.T) {
	_, err := Instantiate(reflect.TypeFor[bban]())
	require.Error(t, err)

	v, err := Instantiate(reflect.TypeFor[frBBAN]())
	require.NoError(t, err)

	boxed, ok := Box(reflect.TypeFor[bban](), v)
	require.True(t, ok)
	assert.Equal(t, reflect.Pointer, boxed.Kind())

	de := reflect.ValueOf(deBBAN{BankCode: "37040044"})
	boxed, ok = Box(reflect.TypeFor[bban](), de)
	require.True(t, ok)
	assert.Equal(t, reflect.Struct, boxed.Kind())

	_, ok = Box(reflect.TypeFor[bban](), reflect.ValueOf(header{}))
	assert.False(t, ok)
}
