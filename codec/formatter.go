package codec

import (
	"reflect"

	fferrors "fixed-format/errors"
	"fixed-format/pattern"
	"fixed-format/subtype"
)

// Formatter reads and writes one type. Its pattern is compiled once.
type Formatter[T any] struct {
	engine *Engine
	tokens []pattern.Token // nil: the pattern of each concrete type
}

// NewFormatter binds a formatter to T. An explicit pattern replaces the
// pattern registered for T. Without one, a struct T must have a pattern; an
// interface T declared as a supertype uses the pattern of each variant.
func NewFormatter[T any](e *Engine, explicit ...string) (*Formatter[T], error) {
	f := &Formatter[T]{engine: e}

	if len(explicit) > 0 && explicit[0] != "" {
		tokens, err := compile(explicit[0])
		if err != nil {
			return nil, err
		}

		f.tokens = tokens

		return f, nil
	}

	t := subtype.Base(reflect.TypeFor[T]())
	if t.Kind() == reflect.Interface {
		if !e.subtypes.IsSuper(t) {
			return nil, fferrors.Schema(t.String(), "", "interface is not a declared supertype")
		}

		return f, nil
	}

	tokens, err := e.patternOf(t)
	if err != nil {
		return nil, err
	}

	f.tokens = tokens

	return f, nil
}

// Format writes v.
func (f *Formatter[T]) Format(v T, opts ...WriteOption) (string, error) {
	var o callOptions
	for _, opt := range opts {
		opt.applyWrite(&o)
	}

	tokens, err := f.tokensFor(o)
	if err != nil {
		return "", fferrors.Process(opWrite, v, err)
	}

	return f.engine.write(v, tokens, o)
}

// Parse reads text into a new T.
func (f *Formatter[T]) Parse(text string, opts ...ReadOption) (T, error) {
	var (
		out T
		o   callOptions
	)

	for _, opt := range opts {
		opt.applyRead(&o)
	}

	tokens, err := f.tokensFor(o)
	if err != nil {
		return out, fferrors.Process(opRead, text, err)
	}

	if err := f.engine.read(text, &out, tokens, o); err != nil {
		return out, err
	}

	return out, nil
}

func (f *Formatter[T]) tokensFor(o callOptions) ([]pattern.Token, error) {
	if o.pattern != "" {
		return compile(o.pattern)
	}

	return f.tokens, nil
}
