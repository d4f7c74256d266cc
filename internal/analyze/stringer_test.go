package analyze

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypePath(t *testing.T) {
	tests := []struct {
		name     string
		path     *TypePath
		expected string
		relative string
	}{
		{
			name:     "root only",
			path:     NewTypePath("Statement"),
			expected: "Statement",
		},
		{
			name:     "container field",
			path:     NewTypePath("Statement").Field("holder").Field("country"),
			expected: "Statement.holder.country",
			relative: "holder.country",
		},
		{
			name:     "collection",
			path:     NewTypePath("Statement").Field("entries").Collection().Field("amount"),
			expected: "Statement.entries[].amount",
			relative: "entries[].amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.path.String())
			assert.Equal(t, tt.relative, tt.path.Relative())
		})
	}
}

func TestTypePath_Immutable(t *testing.T) {
	base := NewTypePath("IBAN")
	_ = base.Field("bban")

	assert.Equal(t, "IBAN", base.String())
}

func TestTypeGraph_FieldPaths(t *testing.T) {
	graph := loadBank(t)

	stmt := graph.GetType(TypeID{PkgPath: bankPkg, Name: "Statement"})
	require.NotNil(t, stmt)

	paths := graph.FieldPaths(stmt, 3)

	keys := make([]string, 0, len(paths))
	for k := range paths {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	assert.Equal(t, []string{
		"ID",
		"entries",
		"entries[].amount",
		"entries[].date",
		"entries[].recordType",
		"entries[].text",
		"holder",
		"holder.country",
		"holder.holderName",
	}, keys)
}

func TestTypeGraph_FieldPaths_NotStruct(t *testing.T) {
	graph := loadBank(t)

	assert.Empty(t, graph.FieldPaths(graph.GetType(TypeID{PkgPath: bankPkg, Name: "BBAN"}), 3))
	assert.Empty(t, graph.FieldPaths(nil, 3))
}
