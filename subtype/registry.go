package subtype

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	fferrors "fixed-format/errors"
)

var (
	ErrNotDeclared          = errors.New("supertype not declared")
	ErrAlreadyDeclared      = errors.New("supertype already declared")
	ErrDuplicateValue       = errors.New("discriminator value already registered")
	ErrValueWidth           = errors.New("discriminator value does not match declared width")
	ErrInvalidDiscriminator = errors.New("invalid discriminator")
	ErrIncompatibleType     = errors.New("variant is not assignable to its supertype")
	ErrAlreadyRegistered    = errors.New("type is already registered as a variant")
)

// maxDepth bounds transitive resolution; hierarchies are shallow in practice.
const maxDepth = 16

// Discriminator declares where the variant tag of a supertype lives in the text.
type Discriminator struct {
	Field  string `yaml:"field"`
	Width  int    `yaml:"width"`
	Offset int    `yaml:"offset"`
}

func (d Discriminator) validate() error {
	if d.Field == "" {
		return fmt.Errorf("%w: empty field name", ErrInvalidDiscriminator)
	}

	if d.Width <= 0 {
		return fmt.Errorf("%w: width must be positive", ErrInvalidDiscriminator)
	}

	if d.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidDiscriminator)
	}

	return nil
}

// Slice extracts the discriminator text from a record, or false if the record is too short.
func (d Discriminator) Slice(record string) (string, bool) {
	runes := []rune(record)
	if d.Offset+d.Width > len(runes) {
		return "", false
	}

	return string(runes[d.Offset : d.Offset+d.Width]), true
}

// Membership records that a concrete type is tagged Value under Super.
type Membership struct {
	Super         reflect.Type
	Discriminator Discriminator
	Value         string
}

type family struct {
	super    reflect.Type
	disc     Discriminator
	fallback reflect.Type
	variants map[string]reflect.Type
}

// values returns the direct discriminator values, sorted.
func (f *family) values() []string {
	out := make([]string, 0, len(f.variants))
	for v := range f.variants {
		out = append(out, v)
	}

	sort.Strings(out)

	return out
}

// Registry maps supertypes to their discriminated variants and back.
// It is safe for concurrent use; registration normally happens at startup.
type Registry struct {
	mu       sync.RWMutex
	families map[reflect.Type]*family
	members  map[reflect.Type]Membership
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		families: make(map[reflect.Type]*family),
		members:  make(map[reflect.Type]Membership),
	}
}

// Declare registers super as a discriminated supertype. fallback is the type used when
// no variant matches; when nil, a struct supertype falls back to itself and an
// interface supertype has no fallback.
func (r *Registry) Declare(super reflect.Type, d Discriminator, fallback reflect.Type) error {
	if err := d.validate(); err != nil {
		return fmt.Errorf("declare %s: %w", super, err)
	}

	if fallback == nil && super.Kind() != reflect.Interface {
		fallback = super
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.families[super]; exists {
		return fmt.Errorf("declare %s: %w", super, ErrAlreadyDeclared)
	}

	r.families[super] = &family{
		super:    super,
		disc:     d,
		fallback: fallback,
		variants: make(map[string]reflect.Type),
	}

	return nil
}

// Register tags concrete with value under the declared supertype super.
// Values are unique among the direct variants of one supertype, and a type
// is the variant of one supertype only.
func (r *Registry) Register(super reflect.Type, value string, concrete reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fam, ok := r.families[super]
	if !ok {
		return fmt.Errorf("register %s under %s: %w", concrete, super, ErrNotDeclared)
	}

	if utf8.RuneCountInString(value) != fam.disc.Width {
		return fmt.Errorf("register %s as %q: %w (%d)", concrete, value, ErrValueWidth, fam.disc.Width)
	}

	if prev, dup := fam.variants[value]; dup {
		return fmt.Errorf("register %s as %q (taken by %s): %w", concrete, value, prev, ErrDuplicateValue)
	}

	if m, dup := r.members[concrete]; dup {
		return fmt.Errorf("register %s under %s (tagged %q under %s): %w", concrete, super, m.Value, m.Super, ErrAlreadyRegistered)
	}

	if !compatible(super, concrete) {
		return fmt.Errorf("register %s under %s: %w", concrete, super, ErrIncompatibleType)
	}

	fam.variants[value] = concrete
	r.members[concrete] = Membership{Super: super, Discriminator: fam.disc, Value: value}

	return nil
}

func compatible(super, concrete reflect.Type) bool {
	if super.Kind() != reflect.Interface {
		return concrete != super
	}

	return concrete.Implements(super) || reflect.PointerTo(concrete).Implements(super)
}

// IsSuper returns true if t is a declared supertype.
func (r *Registry) IsSuper(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.families[t]

	return ok
}

// Discriminator returns the discriminator declared for a supertype.
func (r *Registry) Discriminator(super reflect.Type) (Discriminator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fam, ok := r.families[super]
	if !ok {
		return Discriminator{}, false
	}

	return fam.disc, true
}

// Select picks the concrete type for a record. The discriminator slice of super is
// looked up among its direct variants; a variant that is itself a supertype continues
// the selection. When nothing matches, the fallback of the last supertype reached is
// returned, or a SchemaError when that supertype is abstract.
func (r *Registry) Select(super reflect.Type, record string) (reflect.Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current := super

	for range maxDepth {
		fam, ok := r.families[current]
		if !ok {
			return current, nil
		}

		tag, ok := fam.disc.Slice(record)

		next, matched := fam.variants[tag]
		if !ok || !matched {
			if fam.fallback == nil {
				return nil, fferrors.Schemaf(current.String(), fam.disc.Field,
					"no variant for discriminator %q (known: %s) and no default type", tag, strings.Join(fam.values(), ", "))
			}

			return fam.fallback, nil
		}

		current = next
	}

	return nil, fferrors.Schemaf(super.String(), "", "discriminator hierarchy deeper than %d", maxDepth)
}

// Ancestry lists the memberships of concrete from its direct supertype outwards.
func (r *Registry) Ancestry(concrete reflect.Type) []Membership {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Membership

	current := concrete
	for range maxDepth {
		m, ok := r.members[current]
		if !ok {
			break
		}

		out = append(out, m)
		current = m.Super
	}

	return out
}

// TagFor returns the discriminator value emitted for concrete under the discriminator
// named field, searching its ancestry. An empty field matches the direct supertype.
func (r *Registry) TagFor(concrete reflect.Type, field string) (string, bool) {
	for _, m := range r.Ancestry(Base(concrete)) {
		if field == "" || m.Discriminator.Field == field {
			return m.Value, true
		}
	}

	return "", false
}

// Instantiate returns a new zero value of t. Interfaces cannot be instantiated.
func Instantiate(t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Interface {
		return reflect.Value{}, fferrors.Schema(t.String(), "",
			"abstract supertype has no concrete mapping and no default type")
	}

	return reflect.New(t).Elem(), nil
}

// Box adapts a concrete value for storage in a slot of type slot: the value itself when
// assignable, otherwise a pointer to a copy when the pointer type is assignable.
func Box(slot reflect.Type, v reflect.Value) (reflect.Value, bool) {
	if v.Type().AssignableTo(slot) {
		return v, true
	}

	ptr := reflect.PointerTo(v.Type())
	if ptr.AssignableTo(slot) {
		p := reflect.New(v.Type())
		p.Elem().Set(v)

		return p, true
	}

	return reflect.Value{}, false
}

// Base strips pointer indirections from t.
func Base(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// Declare is the generic form of (*Registry).Declare with no explicit fallback.
func Declare[S any](r *Registry, d Discriminator) error {
	return r.Declare(reflect.TypeFor[S](), d, nil)
}

// Register is the generic form of (*Registry).Register.
func Register[S, C any](r *Registry, value string) error {
	return r.Register(reflect.TypeFor[S](), value, reflect.TypeFor[C]())
}
