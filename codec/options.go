package codec

import (
	"fixed-format/pattern"
)

// Value is one field value a pass emitted or assigned.
type Value struct {
	Path  string
	Value any
}

// Values lists field values in the order they were processed.
type Values []Value

// Get returns the value recorded for path.
func (vs Values) Get(path string) (any, bool) {
	for _, v := range vs {
		if v.Path == path {
			return v.Value, true
		}
	}

	return nil, false
}

// Paths returns the recorded paths in order.
func (vs Values) Paths() []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Path
	}

	return out
}

// Listener observes a finished pass: the object written or read and the
// values of its fields. Absent values written as placeholders are recorded
// with a nil Value. A listener cannot change the result.
type Listener func(obj any, values Values)

type callOptions struct {
	pattern  string
	listener Listener
	values   map[string]any
}

func (o callOptions) tokens() ([]pattern.Token, error) {
	if o.pattern == "" {
		return nil, nil
	}

	return compile(o.pattern)
}

// WriteOption configures one Write call.
type WriteOption interface {
	applyWrite(o *callOptions)
}

// ReadOption configures one Read call.
type ReadOption interface {
	applyRead(o *callOptions)
}

// CallOption applies to both reads and writes.
type CallOption func(o *callOptions)

func (f CallOption) applyWrite(o *callOptions) { f(o) }
func (f CallOption) applyRead(o *callOptions)  { f(o) }

type writeOption func(o *callOptions)

func (f writeOption) applyWrite(o *callOptions) { f(o) }

// WithPattern replaces the type's own pattern for this call.
func WithPattern(p string) CallOption {
	return func(o *callOptions) { o.pattern = p }
}

// WithListener registers a listener for this call only.
func WithListener(l Listener) CallOption {
	return func(o *callOptions) { o.listener = l }
}

// WithValues supplies field values that take precedence over the object's
// own, keyed by concrete path ("items[2]") or by placeholder expression. The
// object is not modified.
func WithValues(values map[string]any) WriteOption {
	return writeOption(func(o *callOptions) {
		if o.values == nil {
			o.values = make(map[string]any, len(values))
		}

		for k, v := range values {
			o.values[k] = v
		}
	})
}
