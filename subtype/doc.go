// Package subtype resolves polymorphic record types from discriminator slices.
//
// A supertype (usually an interface, sometimes a concrete base struct) declares a
// Discriminator: a logical field name plus the width and offset of the text slice that
// selects the variant. Concrete variants register the literal value they are tagged
// with. A variant may itself be a declared supertype, so selection continues
// transitively. The discriminator is derived from the runtime type on write and is
// never stored in an object field.
package subtype
