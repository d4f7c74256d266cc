package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bankPkg = "fixed-format/internal/analyze/testdata/bank"

func loadBank(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer("").LoadPackages(t.Context(), "./testdata/bank")
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadBank(t)

	assert.Contains(t, graph.Packages, bankPkg)
	assert.Equal(t, "bank", graph.Packages[bankPkg].Name)

	tests := []struct {
		name string
		kind TypeKind
	}{
		{name: "Statement", kind: TypeKindStruct},
		{name: "DEBBAN", kind: TypeKindStruct},
		{name: "BBAN", kind: TypeKindInterface},
		{name: "Currency", kind: TypeKindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := graph.GetType(TypeID{PkgPath: bankPkg, Name: tt.name})
			require.NotNil(t, info)
			assert.Equal(t, tt.kind, info.Kind)
		})
	}
}

func TestAnalyzer_Fields(t *testing.T) {
	graph := loadBank(t)

	stmt := graph.GetType(TypeID{PkgPath: bankPkg, Name: "Statement"})
	require.NotNil(t, stmt)

	assert.Equal(t, []string{"ID", "holder", "entries"}, stmt.FieldNames())
	assert.False(t, stmt.HasPattern)

	holder, ok := stmt.Field("holder")
	require.True(t, ok)
	assert.True(t, holder.IsContainer())
	assert.False(t, holder.Collection)
	assert.Equal(t, TypeID{PkgPath: bankPkg, Name: "Holder"}, holder.Elem)
	assert.Equal(t, "*bank.Holder", holder.Type)

	entries, ok := stmt.Field("entries")
	require.True(t, ok)
	assert.True(t, entries.Collection)
	assert.Equal(t, "Transaction", entries.Elem.Name)
}

func TestAnalyzer_PromotedFields(t *testing.T) {
	graph := loadBank(t)

	tx := graph.GetType(TypeID{PkgPath: bankPkg, Name: "Transaction"})
	require.NotNil(t, tx)

	assert.Equal(t, []string{"date", "amount", "text", "recordType"}, tx.FieldNames())

	kind, ok := tx.Field("recordType")
	require.True(t, ok)
	assert.True(t, kind.Promoted)
	require.NotNil(t, kind.Tag.Override.Width)
	assert.Equal(t, 2, *kind.Tag.Override.Width)
}

func TestAnalyzer_PatternMethod(t *testing.T) {
	graph := loadBank(t)

	de := graph.GetType(TypeID{PkgPath: bankPkg, Name: "DEBBAN"})
	require.NotNil(t, de)
	assert.True(t, de.HasPattern)
}

func TestAnalyzer_GetStruct(t *testing.T) {
	a := NewAnalyzer("")
	_, err := a.LoadPackages(t.Context(), "./testdata/bank")
	require.NoError(t, err)

	_, err = a.GetStruct(bankPkg, "Holder")
	require.NoError(t, err)

	_, err = a.GetStruct(bankPkg, "BBAN")
	require.Error(t, err)

	_, err = a.GetStruct(bankPkg, "Missing")
	require.Error(t, err)
}

func TestTypeGraph_Lookup(t *testing.T) {
	graph := loadBank(t)

	assert.Len(t, graph.Lookup("Holder"), 1)
	assert.Len(t, graph.Lookup(bankPkg+".Holder"), 1)
	assert.Empty(t, graph.Lookup("Nope"))
	assert.Contains(t, graph.Names(), "Statement")
	assert.Len(t, graph.Structs(bankPkg), 6)
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer("").LoadPackages(t.Context(), "./testdata/missing")
	require.Error(t, err)
}
