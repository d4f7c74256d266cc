package codec

import (
	"errors"
	"reflect"
	"sync"

	"fixed-format/convert"
	fferrors "fixed-format/errors"
	"fixed-format/pattern"
	"fixed-format/schema"
	"fixed-format/subtype"
)

var (
	ErrNilValue      = errors.New("nothing to write: value is nil")
	ErrInvalidTarget = errors.New("read target must be a non-nil pointer")
	ErrShortInput    = errors.New("input ends before the pattern does")
	ErrTrailingInput = errors.New("input continues after the pattern ends")
)

// maxNesting bounds nested patterns; deeper structures are almost certainly
// a type whose pattern contains itself.
const maxNesting = 32

// Engine reads and writes fixed-width text. It holds only shared registries
// and caches; every call keeps its cursor and collected values on its own
// stack, so one Engine serves concurrent callers.
type Engine struct {
	schemas    *schema.Registry
	converters *convert.Registry
	subtypes   *subtype.Registry
	strict     bool

	// declared memoizes the patterns types declare. Patterns passed with
	// WithPattern are compiled per call.
	declared sync.Map // reflect.Type -> []pattern.Token
}

// Option configures an Engine.
type Option func(*Engine)

// WithSchemas sets the schema registry. The default is an empty registry
// that indexes types from their struct tags.
func WithSchemas(r *schema.Registry) Option {
	return func(e *Engine) { e.schemas = r }
}

// WithConverters sets the converter registry.
func WithConverters(r *convert.Registry) Option {
	return func(e *Engine) { e.converters = r }
}

// WithSubtypes sets the registry of discriminated supertypes.
func WithSubtypes(r *subtype.Registry) Option {
	return func(e *Engine) { e.subtypes = r }
}

// WithStrictLiterals makes Read compare literal text and reject input that
// is longer than the pattern. By default literals are skipped by length.
func WithStrictLiterals() Option {
	return func(e *Engine) { e.strict = true }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}

	if e.schemas == nil {
		e.schemas = schema.NewRegistry()
	}

	if e.converters == nil {
		e.converters = convert.NewRegistry()
	}

	if e.subtypes == nil {
		e.subtypes = subtype.NewRegistry()
	}

	return e
}

// Schemas returns the schema registry.
func (e *Engine) Schemas() *schema.Registry { return e.schemas }

// Converters returns the converter registry.
func (e *Engine) Converters() *convert.Registry { return e.converters }

// Subtypes returns the supertype registry.
func (e *Engine) Subtypes() *subtype.Registry { return e.subtypes }

func compile(p string) ([]pattern.Token, error) {
	tokens, err := pattern.Compile(p)
	if err != nil {
		return nil, fferrors.WrapSchema("", p, "invalid pattern", err)
	}

	return tokens, nil
}

// patternOf returns the compiled pattern declared for t. Indexing t first
// pins its definition, so the memoized tokens cannot go stale.
func (e *Engine) patternOf(t reflect.Type) ([]pattern.Token, error) {
	if cached, ok := e.declared.Load(t); ok {
		return cached.([]pattern.Token), nil
	}

	idx, err := e.schemas.Index(t)
	if err != nil {
		return nil, err
	}

	if idx.Pattern == "" {
		return nil, fferrors.Schema(t.String(), "", "type has no pattern")
	}

	tokens, err := compile(idx.Pattern)
	if err != nil {
		return nil, err
	}

	actual, _ := e.declared.LoadOrStore(t, tokens)

	return actual.([]pattern.Token), nil
}

// Write renders v with its pattern.
func (e *Engine) Write(v any, opts ...WriteOption) (string, error) {
	var o callOptions
	for _, opt := range opts {
		opt.applyWrite(&o)
	}

	tokens, err := o.tokens()
	if err != nil {
		return "", fferrors.Process(opWrite, v, err)
	}

	return e.write(v, tokens, o)
}

// Read parses text into target, which must be a non-nil pointer to a struct,
// to a pointer to a struct, or to an interface declared as a supertype.
func (e *Engine) Read(text string, target any, opts ...ReadOption) error {
	var o callOptions
	for _, opt := range opts {
		opt.applyRead(&o)
	}

	tokens, err := o.tokens()
	if err != nil {
		return fferrors.Process(opRead, text, err)
	}

	return e.read(text, target, tokens, o)
}

const (
	opRead  = "read"
	opWrite = "write"
)
