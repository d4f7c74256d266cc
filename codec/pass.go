package codec

import (
	"reflect"
	"unicode/utf8"

	"fixed-format/convert"
	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/path"
	"fixed-format/pattern"
	"fixed-format/schema"
	"fixed-format/subtype"
)

// pass is the state of one Read or Write call, nested patterns included.
type pass struct {
	e *Engine

	// record is the object being read and its text.
	record *record
	// extra holds WithValues entries of a write.
	extra map[string]any
	// values collects the top-level field values for the listener.
	values Values
	depth  int
}

func (p *pass) collect(path string, v reflect.Value) {
	if p.depth != 0 {
		return
	}

	var x any
	if v.IsValid() {
		x = v.Interface()
	}

	p.values = append(p.values, Value{Path: path, Value: x})
}

// enter guards against patterns that contain themselves.
func (p *pass) enter(t reflect.Type) error {
	if p.depth >= maxNesting {
		return fferrors.Schemaf(t.String(), "", "patterns nested deeper than %d", maxNesting)
	}

	p.depth++

	return nil
}

func (p *pass) leave() { p.depth-- }

type record struct {
	idx  *schema.Index
	text string
}

// within makes idx and text the current record until the returned func runs.
func (p *pass) within(idx *schema.Index, text string) func() {
	outer := p.record
	p.record = &record{idx: idx, text: text}

	return func() { p.record = outer }
}

// selectionText returns the text the discriminator of super is sliced from.
// When the discriminator names a field of the enclosing record, as the
// country code of an IBAN does for its BBAN, that is the record's text;
// otherwise the variants carry it in their own text.
func (p *pass) selectionText(super reflect.Type, own string) string {
	if p.record == nil {
		return own
	}

	d, ok := p.e.subtypes.Discriminator(super)
	if !ok {
		return own
	}

	if _, found := p.record.idx.Field(d.Field); found {
		return p.record.text
	}

	return own
}

// placeholder is one resolved pattern field.
type placeholder struct {
	field    *pattern.Field
	expr     *path.Expr
	resolved []path.Resolved
}

func (p *pass) resolve(tf *pattern.Field, idx *schema.Index) (placeholder, error) {
	expr, err := path.Parse(tf.Expr)
	if err != nil {
		return placeholder{}, fferrors.WrapSchema(idx.Type.String(), tf.Expr, "invalid property path", err)
	}

	if err := path.ApplyRepeat(expr, tf.Repeat); err != nil {
		return placeholder{}, fferrors.WrapSchema(idx.Type.String(), tf.Expr, "invalid repetition", err)
	}

	rs, err := path.ResolveExpr(expr, idx)
	if err != nil {
		return placeholder{}, err
	}

	return placeholder{field: tf, expr: expr, resolved: rs}, nil
}

// discriminator finds the discriminator named by an unresolved placeholder
// among the supertypes of t and returns the tag of t and the field width.
func (p *pass) discriminator(t reflect.Type, ph placeholder) (string, int, error) {
	if len(ph.expr.Segments) == 1 && ph.expr.Segments[0].Kind == path.KindName {
		if tag, ok := p.e.subtypes.TagFor(t, ph.expr.Segments[0].Name); ok {
			width := utf8.RuneCountInString(tag)
			if ph.field.Width != nil {
				width = *ph.field.Width
			}

			return tag, width, nil
		}
	}

	return "", 0, fferrors.Schemaf(t.String(), ph.field.Expr, "unresolvable property path")
}

// descriptorFor applies the inline overrides of the pattern field.
func descriptorFor(r path.Resolved, tf *pattern.Field) descriptor.Descriptor {
	d := r.Descriptor.WithName(r.Path)

	if tf.Width != nil {
		d.Width = *tf.Width
	}

	if tf.Placeholder != nil {
		d.Placeholder = *tf.Placeholder
	}

	return d
}

func (p *pass) converter(d descriptor.Descriptor) (convert.Converter, error) {
	return p.e.converters.Resolve(d, p.nested)
}

// nested supplies converters for types that carry a pattern of their own
// and for declared supertypes.
func (p *pass) nested(t reflect.Type) (convert.Converter, bool, error) {
	if p.e.subtypes.IsSuper(t) {
		return &nestedConverter{p: p, t: t}, true, nil
	}

	if t.Kind() != reflect.Struct {
		return nil, false, nil
	}

	if _, ok := p.e.schemas.Pattern(t); !ok {
		return nil, false, nil
	}

	tokens, err := p.e.patternOf(t)
	if err != nil {
		return nil, false, err
	}

	return &nestedConverter{p: p, t: t, tokens: tokens}, true, nil
}

// tokenWidth is the fixed width of one token for type t, or false when it
// depends on the data.
func (p *pass) tokenWidth(t reflect.Type, idx *schema.Index, tok pattern.Token) (int, bool) {
	if tok.IsLiteral() {
		return utf8.RuneCountInString(tok.Literal), true
	}

	ph, err := p.resolve(tok.Field, idx)
	if err != nil {
		return 0, false
	}

	if len(ph.resolved) == 0 {
		_, w, err := p.discriminator(t, ph)
		return w, err == nil
	}

	sum := 0

	for _, r := range ph.resolved {
		if r.Open != nil {
			return 0, false
		}

		d := descriptorFor(r, tok.Field)

		c, err := p.converter(d)
		if err != nil {
			return 0, false
		}

		if _, variable := c.(convert.VariableWidth); variable {
			return 0, false
		}

		w, ok := convert.WidthOf(c, d)
		if !ok || w == 0 {
			return 0, false
		}

		sum += w
	}

	return sum, true
}

// patternWidth is the total width of tokens when every token is fixed.
func (p *pass) patternWidth(t reflect.Type, tokens []pattern.Token) (int, bool) {
	idx, err := p.e.schemas.Index(t)
	if err != nil {
		return 0, false
	}

	sum := 0

	for _, tok := range tokens {
		w, ok := p.tokenWidth(t, idx, tok)
		if !ok {
			return 0, false
		}

		sum += w
	}

	return sum, true
}

// tailWidth is the text the tokens after a position need at least: the sum
// of their fixed widths.
func (p *pass) tailWidth(t reflect.Type, idx *schema.Index, tokens []pattern.Token) int {
	sum := 0

	for _, tok := range tokens {
		if w, ok := p.tokenWidth(t, idx, tok); ok {
			sum += w
		}
	}

	return sum
}

// nestedConverter formats a field whose type has a pattern of its own by
// running the whole engine on it. For supertypes the concrete type comes
// from the value on write and from the discriminator on read.
type nestedConverter struct {
	p      *pass
	t      reflect.Type
	tokens []pattern.Token // nil for supertypes
}

func (c *nestedConverter) Format(_ descriptor.Descriptor, v reflect.Value) (string, error) {
	tokens := c.tokens
	if tokens == nil || v.Type() != c.t {
		var err error
		if tokens, err = c.p.e.patternOf(v.Type()); err != nil {
			return "", err
		}
	}

	if err := c.p.enter(v.Type()); err != nil {
		return "", err
	}
	defer c.p.leave()

	return c.p.writeTokens(v, tokens)
}

func (c *nestedConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	if convert.IsPlaceholder(d, text) {
		return reflect.Value{}, nil
	}

	t, tokens := c.t, c.tokens

	if tokens == nil {
		concrete, err := c.p.e.subtypes.Select(t, c.p.selectionText(t, text))
		if err != nil {
			return reflect.Value{}, err
		}

		t = concrete
	}

	obj, err := subtype.Instantiate(t)
	if err != nil {
		return reflect.Value{}, err
	}

	if tokens == nil {
		if tokens, err = c.p.e.patternOf(t); err != nil {
			return reflect.Value{}, err
		}
	}

	if err := c.p.enter(t); err != nil {
		return reflect.Value{}, err
	}
	defer c.p.leave()

	if _, err := c.p.readTokens(obj, []rune(text), tokens); err != nil {
		return reflect.Value{}, err
	}

	return obj, nil
}

func (c *nestedConverter) IntrinsicWidth(descriptor.Descriptor) (int, bool) {
	if c.tokens == nil {
		return 0, false
	}

	if err := c.p.enter(c.t); err != nil {
		return 0, false
	}
	defer c.p.leave()

	return c.p.patternWidth(c.t, c.tokens)
}

// baseTarget strips pointers from a descriptor target.
func baseTarget(d descriptor.Descriptor) reflect.Type {
	return subtype.Base(d.Target)
}
