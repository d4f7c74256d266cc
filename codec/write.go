package codec

import (
	"fmt"
	"reflect"
	"strings"

	"fixed-format/convert"
	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/path"
	"fixed-format/pattern"
)

func (e *Engine) write(v any, tokens []pattern.Token, o callOptions) (string, error) {
	p := &pass{e: e, extra: o.values}

	text, err := p.writeRoot(v, tokens)
	if err != nil {
		return "", fferrors.Process(opWrite, v, err)
	}

	if o.listener != nil {
		o.listener(v, p.values)
	}

	return text, nil
}

func (p *pass) writeRoot(v any, tokens []pattern.Token) (string, error) {
	root := reflect.ValueOf(v)
	for root.IsValid() && (root.Kind() == reflect.Pointer || root.Kind() == reflect.Interface) {
		if root.IsNil() {
			return "", ErrNilValue
		}

		root = root.Elem()
	}

	if !root.IsValid() {
		return "", ErrNilValue
	}

	if root.Kind() != reflect.Struct {
		return "", fferrors.Schemaf(root.Type().String(), "", "only structs have patterns")
	}

	if tokens == nil {
		var err error
		if tokens, err = p.e.patternOf(root.Type()); err != nil {
			return "", err
		}
	}

	return p.writeTokens(root, tokens)
}

// writeTokens renders root, a struct value, with tokens.
func (p *pass) writeTokens(root reflect.Value, tokens []pattern.Token) (string, error) {
	t := root.Type()

	idx, err := p.e.schemas.Index(t)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for _, tok := range tokens {
		if tok.IsLiteral() {
			sb.WriteString(tok.Literal)
			continue
		}

		ph, err := p.resolve(tok.Field, idx)
		if err != nil {
			return "", err
		}

		if len(ph.resolved) == 0 {
			tag, width, err := p.discriminator(t, ph)
			if err != nil {
				return "", err
			}

			text, err := convert.Fit(descriptor.Descriptor{Width: width}, tag)
			if err != nil {
				return "", err
			}

			sb.WriteString(text)
			p.collect(tok.Field.Expr, reflect.ValueOf(tag))

			continue
		}

		for _, r := range ph.resolved {
			if r.Open != nil {
				if err := p.writeOpen(&sb, root, r, tok.Field); err != nil {
					return "", err
				}

				continue
			}

			key := ""
			if len(ph.resolved) == 1 {
				key = tok.Field.Expr
			}

			v, ok, err := p.lookup(root, r, key)
			if err != nil {
				return "", err
			}

			if err := p.emit(&sb, r, tok.Field, v, ok); err != nil {
				return "", err
			}
		}
	}

	return sb.String(), nil
}

// writeOpen writes the elements of an open repetition from its start to the
// end of the list. [*] stops at the first missing element.
func (p *pass) writeOpen(sb *strings.Builder, root reflect.Value, r path.Resolved, tf *pattern.Field) error {
	n := path.Len(root, r.Steps)

	for i := r.Open.Start; i < n; i++ {
		ri := r.At(i)

		v, ok, err := p.lookup(root, ri, "")
		if err != nil {
			return err
		}

		if !ok && r.Open.UntilNull {
			return nil
		}

		if err := p.emit(sb, ri, tf, v, ok); err != nil {
			return err
		}
	}

	return nil
}

// lookup returns the value of a resolved path: a WithValues entry for its
// concrete path or expression first, then the object's own value.
func (p *pass) lookup(root reflect.Value, r path.Resolved, expr string) (reflect.Value, bool, error) {
	if p.depth == 0 && p.extra != nil {
		x, found := p.extra[r.Path]
		if !found && expr != "" {
			x, found = p.extra[expr]
		}

		if found {
			return extraValue(r, x)
		}
	}

	v, ok := path.Get(root, r.Steps)

	return v, ok, nil
}

func extraValue(r path.Resolved, x any) (reflect.Value, bool, error) {
	v := reflect.ValueOf(x)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false, nil
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return reflect.Value{}, false, nil
	}

	target := baseTarget(r.Descriptor)

	switch {
	case target == nil || v.Type() == target || target.Kind() == reflect.Interface:
		return v, true, nil
	case v.Kind() == target.Kind() && v.Type().ConvertibleTo(target):
		return v.Convert(target), true, nil
	}

	return reflect.Value{}, false, fferrors.FormatFailed(r.Path,
		fmt.Errorf("supplied value of type %s does not fit %s", v.Type(), target))
}

// emit appends the text of one value, or the placeholder when ok is false.
func (p *pass) emit(sb *strings.Builder, r path.Resolved, tf *pattern.Field, v reflect.Value, ok bool) error {
	d := descriptorFor(r, tf)

	if ok {
		if t := baseTarget(d); t == nil || t.Kind() == reflect.Interface {
			d = d.WithTarget(v.Type())
		}
	}

	text, err := p.format(d, v, ok)
	if err != nil {
		return err
	}

	sb.WriteString(text)

	if ok {
		p.collect(r.Path, v)
	} else {
		p.collect(r.Path, reflect.Value{})
	}

	return nil
}

func (p *pass) format(d descriptor.Descriptor, v reflect.Value, ok bool) (string, error) {
	if !ok {
		width := d.Width
		if width == 0 {
			if c, err := p.converter(d); err == nil {
				width, _ = convert.WidthOf(c, d)
			}
		}

		return convert.PlaceholderText(d, width), nil
	}

	c, err := p.converter(d)
	if err != nil {
		return "", err
	}

	text, err := c.Format(d, v)
	if err != nil {
		return "", conversionFailed(d.Name, "", false, err)
	}

	if _, variable := c.(convert.VariableWidth); variable {
		return text, nil
	}

	fitted, err := convert.Fit(d, text)
	if err != nil {
		return "", conversionFailed(d.Name, "", false, err)
	}

	return fitted, nil
}

// conversionFailed attaches the field to a converter error. Errors that
// already carry their context, from nested patterns for example, pass
// through unchanged.
func conversionFailed(field, raw string, parsing bool, err error) error {
	if fferrors.IsFieldConversion(err) || fferrors.IsSchema(err) || fferrors.IsConverterNotFound(err) {
		return err
	}

	if parsing {
		return fferrors.ParseFailed(field, raw, err)
	}

	return fferrors.FormatFailed(field, err)
}
