package schema

import (
	"reflect"
	"sort"

	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/internal/common"
	"fixed-format/subtype"
)

// FieldKind is the collection shape of a field.
type FieldKind int

const (
	// Scalar is a single value.
	Scalar FieldKind = iota
	// List is a slice or array; byte slices and arrays are scalars.
	List
	// Map is a map with string keys.
	Map
)

func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return common.UnknownStr
	}
}

// Field is one indexed field of a type.
type Field struct {
	// Name is the logical name used in paths.
	Name string
	// GoName is the Go field name.
	GoName string
	// Index is the reflect field index sequence, through embedded structs.
	Index []int
	// Type is the declared Go type.
	Type reflect.Type
	// Kind is the collection shape.
	Kind FieldKind
	// Container marks a field whose sub-fields are addressable as if declared
	// on the owner.
	Container bool
	// Descriptor is the fully merged descriptor of the field. For collections
	// it describes each element.
	Descriptor descriptor.Descriptor
	// Depth is the embedding depth the field was declared at.
	Depth int

	owner   *Index
	context map[string]descriptor.Override
}

// Elem returns the element type for lists and maps and Type for scalars.
func (f *Field) Elem() reflect.Type {
	if f.Kind == Scalar {
		return f.Type
	}

	return f.Type.Elem()
}

// IsCollection reports whether the field is a list or a map.
func (f *Field) IsCollection() bool {
	return f.Kind != Scalar
}

// Nested returns the index of the field element type, carrying the container
// overrides the owner declares for this field. Non-struct elements return an
// error.
func (f *Field) Nested() (*Index, error) {
	elem := subtype.Base(f.Elem())
	if elem.Kind() != reflect.Struct {
		return nil, fferrors.Schemaf(f.owner.Type.String(), f.Name, "field type %s is not a struct", f.Type)
	}

	return f.owner.registry.index(elem, f.context)
}

// Owner returns the index the field belongs to.
func (f *Field) Owner() *Index {
	return f.owner
}

// Index is the name-to-field table of one type in one override context.
// Indexes are immutable after construction and shared between goroutines.
type Index struct {
	// Type is the indexed struct type.
	Type reflect.Type
	// Pattern is the pattern registered for the type, or empty.
	Pattern string
	// Context is the canonical key of the container overrides applied.
	Context string

	fields   map[string]*Field
	order    []*Field
	registry *Registry
}

// Field returns the field with the logical name.
func (x *Index) Field(name string) (*Field, bool) {
	f, ok := x.fields[name]
	return f, ok
}

// Fields returns the fields in declaration order.
func (x *Index) Fields() []*Field {
	return append([]*Field(nil), x.order...)
}

// Names returns the sorted logical names.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.fields))
	for name := range x.fields {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Registry returns the registry that built the index.
func (x *Index) Registry() *Registry {
	return x.registry
}

// Find locates a field by name through the index and its non-collection
// containers. It returns the chain of container fields leading to the match
// followed by the match itself. The shallowest match wins; two matches at the
// same depth are a SchemaError. No match returns nil and no error.
func (x *Index) Find(name string) ([]*Field, error) {
	level := []findNode{{idx: x}}

	for len(level) > 0 {
		var (
			found []*Field
			next  []findNode
		)

		for _, n := range level {
			if f, ok := n.idx.fields[name]; ok {
				if found != nil {
					return nil, fferrors.Schemaf(x.Type.String(), name,
						"name is ambiguous between %s and %s", found[len(found)-1].Owner().Type, n.idx.Type)
				}

				found = append(append([]*Field(nil), n.via...), f)
			}

			for _, f := range n.idx.order {
				if !f.Container || f.IsCollection() {
					continue
				}

				child, err := f.Nested()
				if err != nil {
					return nil, err
				}

				if n.visits(child.Type) {
					continue
				}

				next = append(next, findNode{idx: child, via: append(append([]*Field(nil), n.via...), f)})
			}
		}

		if found != nil {
			return found, nil
		}

		level = next
	}

	return nil, nil
}

type findNode struct {
	idx *Index
	via []*Field
}

// visits reports whether t is already on the container chain, which stops
// recursive containers from being searched forever.
func (n findNode) visits(t reflect.Type) bool {
	if n.idx.Type == t {
		return true
	}

	for _, f := range n.via {
		if f.owner.Type == t {
			return true
		}
	}

	return false
}
