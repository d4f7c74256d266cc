package schema

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/internal/match"
	"fixed-format/pattern"
	"fixed-format/subtype"
)

// Registry errors.
var (
	ErrNotStruct      = errors.New("not a struct type")
	ErrAlreadyDefined = errors.New("type already defined")
	ErrAlreadyBuilt   = errors.New("type index already built")
	ErrNameBound      = errors.New("type name already bound to another type")
)

// Definition is the schema registered for one type in code or YAML.
type Definition struct {
	// Pattern is the type's own pattern.
	Pattern string
	// Fields holds override layers keyed by logical field name. A plain name is a
	// type-level override of an own or inherited field; "container.field" is a
	// container override applied to the nested index of the named container.
	Fields map[string]descriptor.Override
}

func (d Definition) clone() Definition {
	out := Definition{Pattern: d.Pattern}
	if d.Fields != nil {
		out.Fields = make(map[string]descriptor.Override, len(d.Fields))
		for k, v := range d.Fields {
			out.Fields[k] = v
		}
	}

	return out
}

// Patterner is implemented by types that declare their own pattern.
type Patterner interface {
	FixedPattern() string
}

var patternerType = reflect.TypeFor[Patterner]()

type cacheKey struct {
	t   reflect.Type
	ctx string
}

// Registry owns the definitions and the memoized indexes. The zero value is
// ready to use; a Registry must not be copied after first use.
type Registry struct {
	defs  sync.Map // reflect.Type -> Definition
	names sync.Map // string -> reflect.Type
	cache sync.Map // cacheKey -> *Index
	built sync.Map // reflect.Type -> struct{}
	group singleflight.Group
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Define registers the definition of a struct type. A type can be defined once,
// and only before its index is first built.
func (r *Registry) Define(t reflect.Type, def Definition) error {
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("define %v: %w", t, ErrNotStruct)
	}

	if def.Pattern != "" {
		if _, err := pattern.Compile(def.Pattern); err != nil {
			return fferrors.WrapSchema(t.String(), "", "invalid pattern", err)
		}
	}

	if _, ok := r.built.Load(t); ok {
		return fmt.Errorf("define %s: %w", t, ErrAlreadyBuilt)
	}

	if _, loaded := r.defs.LoadOrStore(t, def.clone()); loaded {
		return fmt.Errorf("define %s: %w", t, ErrAlreadyDefined)
	}

	return nil
}

// Definition returns the registered definition of t.
func (r *Registry) Definition(t reflect.Type) (Definition, bool) {
	v, ok := r.defs.Load(t)
	if !ok {
		return Definition{}, false
	}

	return v.(Definition), true
}

// Pattern returns the pattern declared for t through its Definition or the
// Patterner interface.
func (r *Registry) Pattern(t reflect.Type) (string, bool) {
	t = subtype.Base(t)
	if t == nil {
		return "", false
	}

	if def, ok := r.Definition(t); ok && def.Pattern != "" {
		return def.Pattern, true
	}

	switch {
	case t.Kind() == reflect.Interface:
		return "", false
	case t.Implements(patternerType):
		return reflect.Zero(t).Interface().(Patterner).FixedPattern(), true
	case reflect.PointerTo(t).Implements(patternerType):
		return reflect.New(t).Interface().(Patterner).FixedPattern(), true
	}

	return "", false
}

// Bind associates a name, used by YAML files, with a Go type.
func (r *Registry) Bind(name string, t reflect.Type) error {
	actual, loaded := r.names.LoadOrStore(name, t)
	if loaded && actual.(reflect.Type) != t {
		return fmt.Errorf("bind %q to %s (bound to %s): %w", name, t, actual, ErrNameBound)
	}

	return nil
}

// Lookup returns the type bound to name.
func (r *Registry) Lookup(name string) (reflect.Type, bool) {
	v, ok := r.names.Load(name)
	if !ok {
		return nil, false
	}

	return v.(reflect.Type), true
}

// Names returns the bound type names, sorted.
func (r *Registry) Names() []string {
	var names []string

	r.names.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})

	sort.Strings(names)

	return names
}

// Index returns the root index of t. Pointer types are dereferenced.
func (r *Registry) Index(t reflect.Type) (*Index, error) {
	t = subtype.Base(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fferrors.WrapSchema(fmt.Sprint(t), "", "cannot index", ErrNotStruct)
	}

	return r.index(t, nil)
}

func (r *Registry) index(t reflect.Type, ctx map[string]descriptor.Override) (*Index, error) {
	key := cacheKey{t: t, ctx: contextKey(ctx)}
	if v, ok := r.cache.Load(key); ok {
		return v.(*Index), nil
	}

	v, err, _ := r.group.Do(fmt.Sprintf("%p|%s", t, key.ctx), func() (any, error) {
		if v, ok := r.cache.Load(key); ok {
			return v, nil
		}

		idx, err := r.build(t, ctx, key.ctx)
		if err != nil {
			return nil, err
		}

		r.built.Store(t, struct{}{})

		actual, _ := r.cache.LoadOrStore(key, idx)

		return actual, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Index), nil
}

func contextKey(ctx map[string]descriptor.Override) string {
	if len(ctx) == 0 {
		return ""
	}

	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s{%s};", k, ctx[k].Key())
	}

	return sb.String()
}

func (r *Registry) build(t reflect.Type, ctx map[string]descriptor.Override, key string) (*Index, error) {
	raw, err := collectFields(t)
	if err != nil {
		return nil, fferrors.WrapSchema(t.String(), "", "cannot collect fields", err)
	}

	def, _ := r.Definition(t)
	idx := &Index{
		Type:     t,
		Context:  key,
		fields:   make(map[string]*Field, len(raw)),
		registry: r,
	}
	idx.Pattern, _ = r.Pattern(t)

	byName := make(map[string]rawField, len(raw))
	for _, rf := range raw {
		byName[rf.name] = rf
	}

	if err := checkOverrideKeys(t, def.Fields, byName, "override"); err != nil {
		return nil, err
	}

	if err := checkOverrideKeys(t, ctx, byName, "container override"); err != nil {
		return nil, err
	}

	for _, rf := range raw {
		f, err := newField(idx, rf, def.Fields, ctx)
		if err != nil {
			return nil, err
		}

		idx.fields[f.Name] = f
		idx.order = append(idx.order, f)
	}

	return idx, nil
}

func checkOverrideKeys(t reflect.Type, layer map[string]descriptor.Override, fields map[string]rawField, what string) error {
	for key := range layer {
		head, rest, nested := strings.Cut(key, ".")

		rf, ok := fields[head]
		if !ok {
			known := make([]string, 0, len(fields))
			for name := range fields {
				known = append(known, name)
			}

			msg := fmt.Sprintf("%s names unknown field %q", what, head)
			if hints := match.Suggest(head, known, 3); len(hints) > 0 {
				msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
			}

			return fferrors.Schema(t.String(), key, msg)
		}

		if nested && (!rf.tag.Container || rest == "") {
			return fferrors.Schemaf(t.String(), key, "%s addresses %q which is not a field container", what, head)
		}
	}

	return nil
}

func newField(idx *Index, rf rawField, own, ctx map[string]descriptor.Override) (*Field, error) {
	f := &Field{
		Name:      rf.name,
		GoName:    rf.sf.Name,
		Index:     rf.index,
		Type:      rf.sf.Type,
		Kind:      kindOf(rf.sf.Type),
		Container: rf.tag.Container,
		Depth:     rf.depth,
		owner:     idx,
	}

	base := descriptor.Descriptor{Name: f.Name, Target: f.Elem()}.With(rf.tag.Override)
	f.Descriptor = descriptor.Merge(base, ctx[f.Name], own[f.Name])

	if err := f.Descriptor.Validate(); err != nil {
		return nil, fferrors.WrapSchema(idx.Type.String(), f.Name, "invalid field descriptor", err)
	}

	if f.Container {
		if subtype.Base(f.Elem()).Kind() != reflect.Struct {
			return nil, fferrors.Schemaf(idx.Type.String(), f.Name, "field container must hold a struct, found %s", f.Type)
		}

		f.context = childContext(f.Name, own, ctx)
	}

	return f, nil
}

// childContext collects the container overrides addressed to the container
// named name: first those the owner declares, then those inherited from the
// owner's own context, which win.
func childContext(name string, own, outer map[string]descriptor.Override) map[string]descriptor.Override {
	var out map[string]descriptor.Override

	for _, layer := range []map[string]descriptor.Override{own, outer} {
		for key, o := range layer {
			rest, ok := strings.CutPrefix(key, name+".")
			if !ok {
				continue
			}

			if out == nil {
				out = make(map[string]descriptor.Override)
			}

			out[rest] = out[rest].Then(o)
		}
	}

	return out
}

func kindOf(t reflect.Type) FieldKind {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return Scalar
		}

		return List
	case reflect.Map:
		if t.Key().Kind() == reflect.String {
			return Map
		}
	}

	return Scalar
}

type rawField struct {
	sf    reflect.StructField
	index []int
	tag   Tag
	name  string
	depth int
}

// collectFields walks t and its embedded structs. A field declared closer to t
// hides inherited fields of the same logical name; two candidates at the same
// shallowest depth are an error.
func collectFields(t reflect.Type) ([]rawField, error) {
	var (
		order []string
		best  = make(map[string]rawField)
		dups  = make(map[string]int)
	)

	var walk func(t reflect.Type, prefix []int, depth int, visiting map[reflect.Type]bool) error

	walk = func(t reflect.Type, prefix []int, depth int, visiting map[reflect.Type]bool) error {
		if visiting[t] {
			return fmt.Errorf("embedding cycle through %s", t)
		}

		visiting[t] = true
		defer delete(visiting, t)

		for i := range t.NumField() {
			sf := t.Field(i)

			tag, err := ParseTag(sf.Tag.Get(TagKey))
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", t, sf.Name, err)
			}

			if tag.Skip {
				continue
			}

			index := append(slices.Clone(prefix), i)

			if sf.Anonymous && tag.Name == "" && !tag.Container {
				switch {
				case sf.Type.Kind() == reflect.Struct:
					if err := walk(sf.Type, index, depth+1, visiting); err != nil {
						return err
					}

					continue
				case sf.Type.Kind() == reflect.Pointer && sf.Type.Elem().Kind() == reflect.Struct:
					return fmt.Errorf("field %s.%s: embedded struct pointers are not supported", t, sf.Name)
				}
			}

			if !sf.IsExported() {
				continue
			}

			name := tag.Name
			if name == "" {
				name = LogicalName(sf.Name)
			}

			rf := rawField{sf: sf, index: index, tag: tag, name: name, depth: depth}

			prev, seen := best[name]

			switch {
			case !seen:
				order = append(order, name)
				best[name] = rf
				dups[name] = 1
			case depth < prev.depth:
				best[name] = rf
				dups[name] = 1
			case depth == prev.depth:
				dups[name]++
			}
		}

		return nil
	}

	if err := walk(t, nil, 0, make(map[reflect.Type]bool)); err != nil {
		return nil, err
	}

	out := make([]rawField, 0, len(order))

	for _, name := range order {
		if dups[name] > 1 {
			return nil, fmt.Errorf("field %q is declared %d times at the same embedding depth", name, dups[name])
		}

		out = append(out, best[name])
	}

	return out, nil
}

// ValueField returns the single field of struct type t tagged `fixed:",value"`.
// More than one tagged field is a SchemaError.
func ValueField(t reflect.Type) (reflect.StructField, bool, error) {
	if t.Kind() != reflect.Struct {
		return reflect.StructField{}, false, nil
	}

	var (
		found reflect.StructField
		ok    bool
	)

	for i := range t.NumField() {
		sf := t.Field(i)

		tag, err := ParseTag(sf.Tag.Get(TagKey))
		if err != nil || !tag.Value {
			continue
		}

		if ok {
			return reflect.StructField{}, false, fferrors.Schemaf(t.String(), sf.Name,
				"ambiguous value-converter accessor: %s and %s are both tagged value", found.Name, sf.Name)
		}

		found, ok = sf, true
	}

	if ok && !found.IsExported() {
		return reflect.StructField{}, false, fferrors.Schemaf(t.String(), found.Name, "value field must be exported")
	}

	return found, ok, nil
}

// ValueDescriptor returns the tag overrides of a value field.
func ValueDescriptor(sf reflect.StructField) descriptor.Override {
	tag, _ := ParseTag(sf.Tag.Get(TagKey))
	return tag.Override
}
