package path

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fferrors "fixed-format/errors"
	"fixed-format/schema"
)

type transaction struct {
	Amount int64  `fixed:",width=12"`
	Text   string `fixed:",width=33"`
}

type holder struct {
	Name    string `fixed:",width=20"`
	Country string `fixed:",width=2"`
}

type statement struct {
	AccountID    string `fixed:",width=18"`
	Holder       holder `fixed:",container"`
	Owner        *holder
	Transactions []transaction
	Balances     map[string]int64 `fixed:",width=10"`
	Lines        []string         `fixed:",width=8"`
	Name         string           `fixed:",width=5"`
}

func statementIndex(t *testing.T) *schema.Index {
	t.Helper()

	idx, err := schema.NewRegistry().Index(reflect.TypeFor[statement]())
	require.NoError(t, err)

	return idx
}

func paths(rs []Resolved) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Path
	}

	return out
}

func TestResolve(t *testing.T) {
	idx := statementIndex(t)

	tests := []struct {
		name  string
		expr  string
		want  []string
		width int
	}{
		{"plain", "accountID", []string{"accountID"}, 18},
		{"through container", "country", []string{"holder.country"}, 2},
		{"qualified container", "holder.country", []string{"holder.country"}, 2},
		{"direct field wins over container", "name", []string{"name"}, 5},
		{"nested struct without container", "owner.name", []string{"owner.name"}, 20},
		{"index", "lines[3]", []string{"lines[3]"}, 8},
		{"indexed element field", "transactions[1].amount", []string{"transactions[1].amount"}, 12},
		{"range", "lines[0..2]", []string{"lines[0]", "lines[1]", "lines[2]"}, 8},
		{"keys in given order", `balances["EUR,CHF"]`, []string{`balances["EUR"]`, `balances["CHF"]`}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.expr, idx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(got))

			for _, r := range got {
				assert.Equal(t, tt.width, r.Descriptor.Width)
				assert.Nil(t, r.Open)
			}
		})
	}
}

func TestResolve_RangeExpansion(t *testing.T) {
	idx := statementIndex(t)

	got, err := Resolve("lines[0..9]", idx)
	require.NoError(t, err)
	require.Len(t, got, 10)

	for i, r := range got {
		last := r.Steps[len(r.Steps)-1]
		assert.Equal(t, StepIndex, last.Kind)
		assert.Equal(t, i, last.Index)
	}
}

func TestResolve_Open(t *testing.T) {
	idx := statementIndex(t)

	got, err := Resolve("transactions[2..*]", idx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	open := got[0]
	require.NotNil(t, open.Open)
	assert.Equal(t, 2, open.Open.Start)
	assert.False(t, open.Open.UntilNull)
	assert.Equal(t, "transactions", open.Path)

	elem := open.At(4)
	assert.Nil(t, elem.Open)
	assert.Equal(t, "transactions[4]", elem.Path)
	assert.Len(t, elem.Steps, len(open.Steps)+1)

	got, err = Resolve("lines[*]", idx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Open.UntilNull)
}

func TestResolve_UnknownNameIsEmpty(t *testing.T) {
	idx := statementIndex(t)

	for _, expr := range []string{"countryCode", "holder.nothing", "transactions[0].nothing"} {
		got, err := Resolve(expr, idx)
		require.NoError(t, err, expr)
		assert.Empty(t, got, expr)
	}
}

func TestResolve_SchemaErrors(t *testing.T) {
	idx := statementIndex(t)

	for _, expr := range []string{
		"accountID[0]",
		"lines[\"k\"]",
		"balances[1]",
		"transactions.amount",
		"accountID.x",
		"a[",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Resolve(expr, idx)
			require.Error(t, err)
			assert.True(t, fferrors.IsSchema(err), err.Error())
		})
	}
}

func TestResolve_WholeCollection(t *testing.T) {
	idx := statementIndex(t)

	got, err := Resolve("lines", idx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, reflect.TypeFor[[]string](), got[0].Descriptor.Target)
}
