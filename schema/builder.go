package schema

import (
	"reflect"

	"fixed-format/descriptor"
)

// Builder assembles a Definition fluently and registers it.
//
//	err := schema.Define[BankStatement](reg).
//		Pattern("${accountId:18}${transactions[*]:45}").
//		Field("accountId", descriptor.Class(descriptor.ClassNumeric)).
//		Register()
type Builder struct {
	reg *Registry
	t   reflect.Type
	def Definition
}

// Define starts a definition for T.
func Define[T any](reg *Registry) *Builder {
	return &Builder{reg: reg, t: reflect.TypeFor[T]()}
}

// Pattern sets the type's pattern.
func (b *Builder) Pattern(p string) *Builder {
	b.def.Pattern = p
	return b
}

// Field adds overrides for a field. name is either an own or inherited field
// (type-level override) or "container.field" (container override).
func (b *Builder) Field(name string, overrides ...descriptor.Override) *Builder {
	if b.def.Fields == nil {
		b.def.Fields = make(map[string]descriptor.Override)
	}

	b.def.Fields[name] = b.def.Fields[name].Then(descriptor.Combine(overrides...))

	return b
}

// Definition returns the definition assembled so far.
func (b *Builder) Definition() Definition {
	return b.def.clone()
}

// Register defines the type in the registry and binds its Go name.
func (b *Builder) Register() error {
	if err := b.reg.Define(b.t, b.def); err != nil {
		return err
	}

	return b.reg.Bind(b.t.Name(), b.t)
}
