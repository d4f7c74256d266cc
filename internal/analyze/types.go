package analyze

import (
	"go/types"
	"sort"
	"strings"

	"fixed-format/internal/common"
	"fixed-format/schema"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "fixed-format/internal/analyze/testdata/bank"
	Name    string // e.g., "IBAN"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a named type.
type TypeKind int

const (
	TypeKindUnknown   TypeKind = iota
	TypeKindStruct             // struct type
	TypeKindInterface          // interface type, a possible supertype
	TypeKindOther              // any other named type (scalars, enums, slices)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindStruct:
		return "struct"
	case TypeKindInterface:
		return "interface"
	case TypeKindOther:
		return "other"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a named type of a loaded package.
type TypeInfo struct {
	ID   TypeID
	Kind TypeKind
	// Fields lists struct fields in declaration order; fields promoted from
	// embedded structs follow the fields declared directly.
	Fields []FieldInfo
	// HasPattern is set when the type has a FixedPattern method.
	HasPattern bool
	GoType     types.Type
}

// Field returns the field with the given logical name.
func (t *TypeInfo) Field(name string) (*FieldInfo, bool) {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i], true
		}
	}

	return nil, false
}

// FieldNames returns the logical names of all fields.
func (t *TypeInfo) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}

	return names
}

// FieldInfo describes one visible field of a struct.
type FieldInfo struct {
	GoName string     // Go field name
	Name   string     // logical name used in patterns
	Type   string     // short type string, e.g. "[]Transaction"
	Tag    schema.Tag // parsed `fixed` tag
	// TagErr is the error of an unparsable tag; Tag is then zero.
	TagErr error
	// Promoted is set for fields inherited from an embedded struct.
	Promoted bool
	// Elem is the struct type of a container field after pointers, slices
	// and maps are stripped. It is zero when that type is not a named struct.
	Elem TypeID
	// Collection is set when the container holds several elements.
	Collection bool
}

// IsContainer reports whether the field is tagged as a container.
func (f *FieldInfo) IsContainer() bool {
	return f.Tag.Container
}

// TypeGraph holds all analyzed types from loaded packages.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all exported named types.
	Types map[TypeID]*TypeInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Packages: make(map[string]*PackageInfo),
	}
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup finds types by name. A qualified name ("pkg/path.Name") matches at
// most one type; a bare name matches every loaded type of that name.
func (g *TypeGraph) Lookup(name string) []*TypeInfo {
	if i := strings.LastIndex(name, "."); i > 0 {
		if t := g.Types[TypeID{PkgPath: name[:i], Name: name[i+1:]}]; t != nil {
			return []*TypeInfo{t}
		}

		return nil
	}

	var out []*TypeInfo

	for id, t := range g.Types {
		if id.Name == name {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })

	return out
}

// Names returns the sorted bare names of all types.
func (g *TypeGraph) Names() []string {
	seen := make(map[string]struct{}, len(g.Types))
	for id := range g.Types {
		seen[id.Name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Structs returns the struct types of one package in name order, or of all
// packages when pkgPath is empty.
func (g *TypeGraph) Structs(pkgPath string) []*TypeInfo {
	var out []*TypeInfo

	for id, t := range g.Types {
		if t.Kind == TypeKindStruct && (pkgPath == "" || id.PkgPath == pkgPath) {
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
}
