package schema

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"fixed-format/descriptor"
	"fixed-format/internal/diagnostic"
	"fixed-format/internal/match"
	"fixed-format/pattern"
	"fixed-format/subtype"
)

// File is a YAML schema file.
//
//	version: "1"
//	types:
//	  - name: IBAN
//	    pattern: "${countryCode}${checkDigits:2}${bban}"
//	    fields:
//	      checkDigits: {class: numeric}
//	  - name: BBAN
//	    discriminator: {field: countryCode, width: 2}
//	    subtypes: {DE: DEBBAN, FR: FRBBAN}
//	  - name: DEBBAN
//	    pattern: "${bankCode}${accountNumber}"
//	    fields:
//	      bankCode: 8
//	      accountNumber: 10
type File struct {
	Version string    `yaml:"version"`
	Types   []TypeDef `yaml:"types"`
}

// TypeDef is the schema of one named type.
type TypeDef struct {
	Name          string                   `yaml:"name"`
	Pattern       string                   `yaml:"pattern,omitempty"`
	Fields        map[string]FieldOverride `yaml:"fields,omitempty"`
	Discriminator *subtype.Discriminator   `yaml:"discriminator,omitempty"`
	// Default names the type used when no subtype matches.
	Default  string            `yaml:"default,omitempty"`
	Subtypes map[string]string `yaml:"subtypes,omitempty"`
}

// FieldOverride is a descriptor override as written in YAML. A bare integer is
// shorthand for a width.
type FieldOverride struct {
	descriptor.Override `yaml:",inline"`
}

// UnmarshalYAML accepts either an integer width or a mapping of options.
func (f *FieldOverride) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var width int

		if err := node.Decode(&width); err != nil {
			return fmt.Errorf("line %d: field shorthand must be a width: %w", node.Line, err)
		}

		f.Override = descriptor.Width(width)

		return nil

	case yaml.MappingNode:
		var o descriptor.Override

		if err := node.Decode(&o); err != nil {
			return err
		}

		f.Override = o

		return nil

	default:
		return fmt.Errorf("line %d: expected width or mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes the integer shorthand when only a width is set.
func (f FieldOverride) MarshalYAML() (any, error) {
	if f.Width != nil && onlyWidth(f.Override) {
		return *f.Width, nil
	}

	return f.Override, nil
}

func onlyWidth(o descriptor.Override) bool {
	o.Width = nil
	return o.IsZero()
}

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}

// Validate performs the structural checks that need no Go types.
func (f *File) Validate() *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}

	if f.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported schema version %q", f.Version), "", "")
	}

	seen := make(map[string]struct{}, len(f.Types))

	for i := range f.Types {
		td := &f.Types[i]

		if td.Name == "" {
			res.AddError("missing_name", fmt.Sprintf("type #%d has no name", i+1), "", "")
			continue
		}

		if _, dup := seen[td.Name]; dup {
			res.AddError("duplicate_type", fmt.Sprintf("type %q is declared twice", td.Name), td.Name, "")
		}

		seen[td.Name] = struct{}{}

		if td.Pattern != "" {
			if _, err := pattern.Compile(td.Pattern); err != nil {
				res.AddError("invalid_pattern", err.Error(), td.Name, "")
			}
		}

		for key, o := range td.Fields {
			if err := descriptor.Merge(descriptor.Descriptor{}, o.Override).Validate(); err != nil {
				res.AddError("invalid_override", err.Error(), td.Name, key)
			}
		}

		switch {
		case td.Discriminator == nil && (len(td.Subtypes) > 0 || td.Default != ""):
			res.AddError("missing_discriminator", "subtypes declared without a discriminator", td.Name, "")
		case td.Discriminator != nil:
			if td.Discriminator.Field == "" || td.Discriminator.Width <= 0 || td.Discriminator.Offset < 0 {
				res.AddError("invalid_discriminator",
					"discriminator needs a field name, a positive width and a non-negative offset", td.Name, "")
			}

			if len(td.Subtypes) == 0 {
				res.AddWarning("no_subtypes", "discriminator declared without subtypes", td.Name, "")
			}
		}
	}

	return res
}

// Apply registers the file's definitions in reg and its discriminators and
// subtypes in sub. Every type name must be bound in reg first. sub may be nil
// when the file declares no discriminators.
func (f *File) Apply(reg *Registry, sub *subtype.Registry) error {
	res := f.Validate()
	if res.HasErrors() {
		return res.Error()
	}

	lookup := func(name, owner, key string) reflect.Type {
		t, ok := reg.Lookup(name)
		if !ok {
			res.AddError("unbound_type", fmt.Sprintf("type name %q is not bound to a Go type", name),
				owner, key, match.Suggest(name, reg.Names(), 3)...)
		}

		return t
	}

	for i := range f.Types {
		td := &f.Types[i]

		t := lookup(td.Name, td.Name, "")
		if t == nil || (td.Pattern == "" && len(td.Fields) == 0) {
			continue
		}

		def := Definition{Pattern: td.Pattern, Fields: make(map[string]descriptor.Override, len(td.Fields))}
		for key, o := range td.Fields {
			def.Fields[key] = o.Override
		}

		if err := reg.Define(t, def); err != nil {
			res.AddError("define_failed", err.Error(), td.Name, "")
		}
	}

	// Declare every supertype before registering variants so that variants may
	// themselves be supertypes declared later in the file.
	var pending []*TypeDef

	for i := range f.Types {
		td := &f.Types[i]
		if td.Discriminator == nil {
			continue
		}

		if sub == nil {
			res.AddError("no_subtype_registry", "discriminator declared but no subtype registry given", td.Name, "")
			break
		}

		super, ok := reg.Lookup(td.Name)
		if !ok {
			continue
		}

		var fallback reflect.Type
		if td.Default != "" {
			if fallback = lookup(td.Default, td.Name, "default"); fallback == nil {
				continue
			}
		}

		if err := sub.Declare(super, *td.Discriminator, fallback); err != nil {
			res.AddError("declare_failed", err.Error(), td.Name, "")
			continue
		}

		pending = append(pending, td)
	}

	for _, td := range pending {
		super, _ := reg.Lookup(td.Name)

		values := make([]string, 0, len(td.Subtypes))
		for v := range td.Subtypes {
			values = append(values, v)
		}

		sort.Strings(values)

		for _, v := range values {
			concrete := lookup(td.Subtypes[v], td.Name, "subtypes."+v)
			if concrete == nil {
				continue
			}

			if err := sub.Register(super, v, concrete); err != nil {
				res.AddError("register_failed", err.Error(), td.Name, "subtypes."+v)
			}
		}
	}

	return res.Error()
}
