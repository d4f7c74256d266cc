package codec

import (
	"fmt"
	"reflect"
	"unicode/utf8"

	"fixed-format/convert"
	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/path"
	"fixed-format/pattern"
	"fixed-format/subtype"
)

func (e *Engine) read(text string, target any, tokens []pattern.Token, o callOptions) error {
	p := &pass{e: e}

	obj, err := p.readRoot(text, target, tokens)
	if err != nil {
		return fferrors.Process(opRead, text, err)
	}

	if o.listener != nil {
		o.listener(obj.Interface(), p.values)
	}

	return nil
}

// readRoot resolves the concrete type to read, reads it and stores it in
// target. It returns the value stored.
func (p *pass) readRoot(text string, target any, tokens []pattern.Token) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, ErrInvalidTarget
	}

	slot := rv.Elem()
	for slot.Kind() == reflect.Pointer {
		if slot.IsNil() {
			slot.Set(reflect.New(slot.Type().Elem()))
		}

		slot = slot.Elem()
	}

	obj, boxed := slot, false

	if slot.Kind() == reflect.Interface {
		concrete, err := p.e.subtypes.Select(slot.Type(), text)
		if err != nil {
			return reflect.Value{}, err
		}

		if obj, err = subtype.Instantiate(concrete); err != nil {
			return reflect.Value{}, err
		}

		boxed = true
	}

	if obj.Kind() != reflect.Struct {
		return reflect.Value{}, fferrors.Schemaf(obj.Type().String(), "", "only structs have patterns")
	}

	if tokens == nil {
		var err error
		if tokens, err = p.e.patternOf(obj.Type()); err != nil {
			return reflect.Value{}, err
		}
	}

	in := []rune(text)

	n, err := p.readTokens(obj, in, tokens)
	if err != nil {
		return reflect.Value{}, err
	}

	if p.e.strict && n < len(in) {
		return reflect.Value{}, fmt.Errorf("%w: %d characters left", ErrTrailingInput, len(in)-n)
	}

	if boxed {
		v, ok := subtype.Box(slot.Type(), obj)
		if !ok {
			return reflect.Value{}, fferrors.Schemaf(slot.Type().String(), "", "%s cannot be stored as %s", obj.Type(), slot.Type())
		}

		slot.Set(v)
	}

	return rv.Elem(), nil
}

// readTokens reads in into obj, a settable struct, and returns the number
// of characters consumed.
func (p *pass) readTokens(obj reflect.Value, in []rune, tokens []pattern.Token) (int, error) {
	t := obj.Type()

	idx, err := p.e.schemas.Index(t)
	if err != nil {
		return 0, err
	}

	defer p.within(idx, string(in))()

	cur := 0

	for ti, tok := range tokens {
		if tok.IsLiteral() {
			if cur, err = p.skip(in, cur, tok.Literal, true); err != nil {
				return cur, err
			}

			continue
		}

		ph, err := p.resolve(tok.Field, idx)
		if err != nil {
			return cur, err
		}

		if len(ph.resolved) == 0 {
			tag, width, err := p.discriminator(t, ph)
			if err != nil {
				return cur, err
			}

			text, err := convert.Fit(descriptor.Descriptor{Width: width}, tag)
			if err != nil {
				return cur, err
			}

			if cur, err = p.skip(in, cur, text, p.e.strict); err != nil {
				return cur, err
			}

			continue
		}

		tail := p.tailWidth(t, idx, tokens[ti+1:])

		for _, r := range ph.resolved {
			if r.Open == nil {
				if cur, _, err = p.readOne(obj, in, cur, r, tok.Field, tail); err != nil {
					return cur, err
				}

				continue
			}

			for i := r.Open.Start; cur < len(in)-tail; i++ {
				next, present, err := p.readOne(obj, in, cur, r.At(i), tok.Field, tail)
				if err != nil {
					return next, err
				}

				if next == cur || (!present && r.Open.UntilNull) {
					cur = next
					break
				}

				cur = next
			}
		}
	}

	return cur, nil
}

// skip advances over text, comparing it with the input when check is set.
func (p *pass) skip(in []rune, cur int, text string, check bool) (int, error) {
	n := utf8.RuneCountInString(text)
	if cur+n > len(in) {
		return cur, fmt.Errorf("%w: %q expected at offset %d", ErrShortInput, text, cur)
	}

	if got := string(in[cur : cur+n]); check && p.e.strict && got != text {
		return cur, fferrors.Schemaf("", "", "literal %q expected at offset %d, found %q", text, cur, got)
	}

	return cur + n, nil
}

// readOne reads the value of one resolved path at cur and assigns it. It
// returns the new cursor and whether the text held a value.
func (p *pass) readOne(obj reflect.Value, in []rune, cur int, r path.Resolved, tf *pattern.Field, tail int) (int, bool, error) {
	d := descriptorFor(r, tf)

	c, err := p.converter(d)
	if err != nil {
		return cur, false, err
	}

	var (
		v   reflect.Value
		raw string
	)

	if vw, ok := c.(convert.VariableWidth); ok {
		var n int

		v, n, err = vw.ParseSpan(d, string(in[cur:]))
		raw = string(in[cur:min(cur+n, len(in))])

		if err != nil {
			return cur, false, conversionFailed(d.Name, raw, true, err)
		}

		cur += n
	} else {
		w, ok := convert.WidthOf(c, d)
		if !ok || w == 0 {
			w = max(len(in)-cur-tail, 0)
		}

		if cur+w > len(in) {
			return cur, false, fmt.Errorf("%w: field %q needs %d characters at offset %d, %d left",
				ErrShortInput, d.Name, w, cur, len(in)-cur)
		}

		raw = string(in[cur : cur+w])
		cur += w

		if d.Placeholder != "" && convert.IsPlaceholder(d, raw) {
			return cur, false, nil
		}

		if v, err = c.Parse(d, raw); err != nil {
			return cur, false, conversionFailed(d.Name, raw, true, err)
		}
	}

	if !v.IsValid() {
		return cur, false, nil
	}

	if d.ReadOnly {
		return cur, true, nil
	}

	if err := path.Set(obj, r.Steps, v); err != nil {
		return cur, true, err
	}

	p.collect(r.Path, v)

	return cur, true, nil
}
