package analyze

import (
	"go/types"
	"strings"
)

// TypePath builds a readable logical path through container fields.
// Examples:
//   - "IBAN" for a root type
//   - "IBAN.holder" for a container field
//   - "Statement.entries[]" for a collection container
//   - "Statement.entries[].amount" for a field of collection elements
type TypePath struct {
	parts []string
}

// NewTypePath creates a new TypePath from a root type name.
func NewTypePath(root string) *TypePath {
	return &TypePath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *TypePath) Field(name string) *TypePath {
	return &TypePath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Collection marks the last part as holding several elements.
func (p *TypePath) Collection() *TypePath {
	if len(p.parts) == 0 {
		return &TypePath{parts: []string{"[]"}}
	}

	parts := make([]string, len(p.parts))
	copy(parts, p.parts)
	parts[len(parts)-1] += "[]"

	return &TypePath{parts: parts}
}

// String returns the full path string.
func (p *TypePath) String() string {
	return strings.Join(p.parts, ".")
}

// Relative returns the path without its root type name.
func (p *TypePath) Relative() string {
	if len(p.parts) < 2 {
		return ""
	}

	return strings.Join(p.parts[1:], ".")
}

// TypeString renders t with package names instead of import paths, so
// "[]fixed-format/x.Transaction" reads "[]x.Transaction".
func TypeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

// FieldPaths lists every field reachable from root through container fields,
// keyed by the path relative to root ("holder.country"). Collection
// containers contribute "[]" to the key of their element fields.
func (g *TypeGraph) FieldPaths(root *TypeInfo, maxDepth int) map[string]*FieldInfo {
	result := make(map[string]*FieldInfo)
	if root == nil || root.Kind != TypeKindStruct {
		return result
	}

	g.collectPaths(root, NewTypePath(root.ID.Name), result, 0, maxDepth)

	return result
}

func (g *TypeGraph) collectPaths(t *TypeInfo, path *TypePath, result map[string]*FieldInfo, depth, maxDepth int) {
	if t == nil || depth > maxDepth {
		return
	}

	for i := range t.Fields {
		field := &t.Fields[i]
		fieldPath := path.Field(field.Name)

		result[fieldPath.Relative()] = field

		if !field.IsContainer() || field.Elem.Name == "" {
			continue
		}

		if field.Collection {
			fieldPath = fieldPath.Collection()
		}

		g.collectPaths(g.Types[field.Elem], fieldPath, result, depth+1, maxDepth)
	}
}
