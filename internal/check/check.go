package check

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"fixed-format/internal/analyze"
	"fixed-format/internal/common"
	"fixed-format/internal/diagnostic"
	"fixed-format/internal/match"
	"fixed-format/path"
	"fixed-format/pattern"
	"fixed-format/schema"
)

// maxDepth bounds the container levels searched for field names.
const maxDepth = 6

// Validate checks a schema file against the given type graph. It reports
// the structural problems of the file itself plus every name that does not
// match the loaded Go types.
func Validate(f *schema.File, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	res.Merge(*f.Validate())

	c := &checker{f: f, graph: graph, res: res, parents: parents(f)}

	for i := range f.Types {
		c.typeDef(&f.Types[i])
	}

	return res
}

type checker struct {
	f     *schema.File
	graph *analyze.TypeGraph
	res   *diagnostic.Diagnostics
	// parents maps a type name to the supertypes listing it as a subtype.
	parents map[string][]string
}

func parents(f *schema.File) map[string][]string {
	out := make(map[string][]string)

	for _, td := range f.Types {
		for _, sub := range td.Subtypes {
			out[sub] = append(out[sub], td.Name)
		}
	}

	return out
}

// lookup resolves a type name of the file to a loaded type.
func (c *checker) lookup(name, owner, key string) *analyze.TypeInfo {
	found := c.graph.Lookup(name)

	first, ok := common.First(found)
	if !ok {
		c.res.AddError("type_not_found", fmt.Sprintf("type %q not found in the loaded packages", name),
			owner, key, match.Suggest(name, c.graph.Names(), 3)...)

		return nil
	}

	if common.IsMultiple(found) {
		c.res.AddWarning("ambiguous_type",
			fmt.Sprintf("type %q exists in several packages, using %s", name, first.ID), owner, key)
	}

	return first
}

func (c *checker) typeDef(td *schema.TypeDef) {
	if td.Name == "" {
		return
	}

	info := c.lookup(td.Name, td.Name, "")
	if info == nil {
		return
	}

	if td.Discriminator != nil {
		c.supertype(td, info)
	}

	if len(td.Fields) == 0 && td.Pattern == "" {
		return
	}

	if info.Kind != analyze.TypeKindStruct {
		c.res.AddError("not_a_struct",
			fmt.Sprintf("%s is a %s; only structs have patterns and fields", info.ID, info.Kind), td.Name, "")

		return
	}

	keys := fieldKeys(c.graph, info)

	for key := range td.Fields {
		if _, ok := keys[key]; !ok {
			c.res.AddError("unknown_field", fmt.Sprintf("no field %q in %s", key, info.ID),
				td.Name, key, match.Suggest(key, sortedKeys(keys), 3)...)
		}
	}

	if td.Pattern == "" {
		if !info.HasPattern {
			c.res.AddWarning("no_pattern", "type has neither a pattern nor a FixedPattern method", td.Name, "")
		}

		return
	}

	c.pattern(td, info)
}

// pattern checks that every placeholder starts with a field reachable from
// the type or with a discriminator of one of its supertypes.
func (c *checker) pattern(td *schema.TypeDef, info *analyze.TypeInfo) {
	tokens, err := pattern.Compile(td.Pattern)
	if err != nil {
		return // reported by the file's own validation
	}

	known := unqualified(c.graph, info)
	for _, name := range c.discriminators(td.Name) {
		known[name] = struct{}{}
	}

	for _, tok := range tokens {
		if tok.IsLiteral() {
			continue
		}

		expr, err := path.Parse(tok.Field.Expr)
		if err != nil {
			c.res.AddError("invalid_path", err.Error(), td.Name, tok.Field.Expr)
			continue
		}

		head := expr.Segments[0].Name
		if _, ok := known[head]; !ok {
			c.res.AddError("unknown_path", fmt.Sprintf("placeholder %q names no field of %s", tok.Field.Expr, info.ID),
				td.Name, tok.Field.Expr, match.Suggest(head, sortedKeys(known), 3)...)
		}
	}
}

func (c *checker) supertype(td *schema.TypeDef, info *analyze.TypeInfo) {
	if info.Kind == analyze.TypeKindOther {
		c.res.AddError("invalid_supertype",
			fmt.Sprintf("%s is neither an interface nor a struct", info.ID), td.Name, "")
	}

	values := make([]string, 0, len(td.Subtypes))
	for v := range td.Subtypes {
		values = append(values, v)
	}

	sort.Strings(values)

	for _, v := range values {
		key := "subtypes." + v

		if n := utf8.RuneCountInString(v); n != td.Discriminator.Width {
			c.res.AddError("value_width",
				fmt.Sprintf("discriminator value %q has %d characters, the discriminator is %d wide", v, n, td.Discriminator.Width),
				td.Name, key)
		}

		sub := c.lookup(td.Subtypes[v], td.Name, key)
		if sub == nil {
			continue
		}

		if sub.Kind == analyze.TypeKindStruct && !sub.HasPattern && !c.hasPattern(td.Subtypes[v]) {
			c.res.AddWarning("no_pattern", fmt.Sprintf("subtype %s has no pattern", sub.ID), td.Name, key)
		}
	}

	if td.Default != "" {
		c.lookup(td.Default, td.Name, "default")
	}
}

func (c *checker) hasPattern(name string) bool {
	for _, td := range c.f.Types {
		if td.Name == name && td.Pattern != "" {
			return true
		}
	}

	return false
}

// discriminators lists the discriminator field names of every supertype
// of name, transitively.
func (c *checker) discriminators(name string) []string {
	var (
		out  []string
		seen = map[string]struct{}{name: {}}
		todo = []string{name}
	)

	for len(todo) > 0 {
		cur := todo[0]
		todo = todo[1:]

		for _, super := range c.parents[cur] {
			if _, ok := seen[super]; ok {
				continue
			}

			seen[super] = struct{}{}
			todo = append(todo, super)

			for _, td := range c.f.Types {
				if td.Name == super && td.Discriminator != nil {
					out = append(out, td.Discriminator.Field)
				}
			}
		}
	}

	return out
}

// fieldKeys are the override keys accepted for a type: its own fields and
// "container.field" paths into its containers.
func fieldKeys(g *analyze.TypeGraph, info *analyze.TypeInfo) map[string]struct{} {
	keys := make(map[string]struct{})
	for p := range g.FieldPaths(info, maxDepth) {
		keys[strings.ReplaceAll(p, "[]", "")] = struct{}{}
	}

	return keys
}

// unqualified are the names a placeholder may start with: fields of the type
// and fields reachable through single-valued containers.
func unqualified(g *analyze.TypeGraph, info *analyze.TypeInfo) map[string]struct{} {
	out := make(map[string]struct{})

	for p := range g.FieldPaths(info, maxDepth) {
		if strings.Contains(p, "[]") {
			continue
		}

		out[p[strings.LastIndex(p, ".")+1:]] = struct{}{}
	}

	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
