package analyze

import (
	"strings"

	"fixed-format/descriptor"
	"fixed-format/schema"
)

// Scaffold builds a schema file skeleton for the given struct types. Types
// without a FixedPattern method get a pattern listing their fields in order;
// every field gets an entry carrying its tag overrides, or a zero width to
// be filled in.
func Scaffold(types []*TypeInfo) *schema.File {
	f := &schema.File{Version: "1"}

	for _, t := range types {
		if t.Kind != TypeKindStruct {
			continue
		}

		td := schema.TypeDef{
			Name:   t.ID.Name,
			Fields: make(map[string]schema.FieldOverride, len(t.Fields)),
		}

		var sb strings.Builder

		for _, field := range t.Fields {
			if field.IsContainer() {
				continue
			}

			if !t.HasPattern {
				sb.WriteString("${" + field.Name + "}")
			}

			o := field.Tag.Override
			if o.Width == nil {
				o = o.Then(descriptor.Width(0))
			}

			td.Fields[field.Name] = schema.FieldOverride{Override: o}
		}

		td.Pattern = sb.String()
		f.Types = append(f.Types, td)
	}

	return f
}

// Tagged reports whether a struct takes part in fixed-width mapping: it has
// a FixedPattern method or at least one field with a `fixed` tag.
func Tagged(t *TypeInfo) bool {
	if t.Kind != TypeKindStruct {
		return false
	}

	if t.HasPattern {
		return true
	}

	for _, f := range t.Fields {
		if !f.Tag.Override.IsZero() || f.Tag.Name != "" || f.Tag.Container || f.Tag.Value {
			return true
		}
	}

	return false
}
