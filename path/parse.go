package path

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"fixed-format/pattern"
)

// Parse errors.
var (
	ErrEmptyPath        = errors.New("empty path")
	ErrEmptySegment     = errors.New("empty segment")
	ErrInvalidName      = errors.New("invalid field name")
	ErrInvalidSelector  = errors.New("invalid selector")
	ErrSelectorNotLast  = errors.New("range, wildcard and key selectors are only allowed on the last segment")
	ErrAlreadySelected  = errors.New("last segment already carries a selector")
	ErrUnterminatedKey  = errors.New("unterminated key")
	ErrDescendingRange  = errors.New("range end before start")
	ErrTrailingSelector = errors.New("unexpected text after selector")
)

// SyntaxError reports a malformed expression and the offset of the problem.
type SyntaxError struct {
	Expr   string
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("path %q at offset %d: %v", e.Expr, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Parse parses a path expression.
func Parse(expr string) (*Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, &SyntaxError{Expr: expr, Err: ErrEmptyPath}
	}

	p := &parser{src: expr}

	out, err := p.path()
	if err != nil {
		return nil, err
	}

	for i, seg := range out.Segments[:len(out.Segments)-1] {
		if seg.Kind.Expanding() {
			return nil, &SyntaxError{Expr: expr, Offset: p.offsets[i], Err: ErrSelectorNotLast}
		}
	}

	return out, nil
}

type parser struct {
	src     string
	pos     int
	offsets []int
}

func (p *parser) fail(err error) error {
	return &SyntaxError{Expr: p.src, Offset: p.pos, Err: err}
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) path() (*Expr, error) {
	out := &Expr{}

	for {
		p.offsets = append(p.offsets, p.pos)

		seg, err := p.segment()
		if err != nil {
			return nil, err
		}

		out.Segments = append(out.Segments, seg)

		if p.eof() {
			return out, nil
		}

		if p.peek() != '.' {
			return nil, p.fail(ErrTrailingSelector)
		}

		p.pos++
	}
}

func (p *parser) segment() (Segment, error) {
	start := p.pos

	for !p.eof() && p.peek() != '.' && p.peek() != '[' {
		p.pos++
	}

	name := strings.TrimSpace(p.src[start:p.pos])
	if name == "" {
		return Segment{}, p.fail(ErrEmptySegment)
	}

	if !validName(name) {
		return Segment{}, &SyntaxError{Expr: p.src, Offset: start, Err: fmt.Errorf("%w %q", ErrInvalidName, name)}
	}

	seg := Segment{Name: name}

	if !p.eof() && p.peek() == '[' {
		if err := p.selector(&seg); err != nil {
			return Segment{}, err
		}
	}

	return seg, nil
}

func (p *parser) selector(seg *Segment) error {
	p.pos++ // '['

	p.skipSpace()

	if p.eof() {
		return p.fail(ErrInvalidSelector)
	}

	switch c := p.peek(); {
	case c == '"':
		keys, err := p.keys()
		if err != nil {
			return err
		}

		seg.Kind, seg.Keys = KindKeys, keys
	case c == '*':
		p.pos++
		seg.Kind = KindWildcard
	case c >= '0' && c <= '9':
		if err := p.indexOrRange(seg); err != nil {
			return err
		}
	default:
		return p.fail(ErrInvalidSelector)
	}

	p.skipSpace()

	if p.eof() || p.peek() != ']' {
		return p.fail(ErrInvalidSelector)
	}

	p.pos++

	return nil
}

func (p *parser) indexOrRange(seg *Segment) error {
	first, err := p.number()
	if err != nil {
		return err
	}

	if !strings.HasPrefix(p.src[p.pos:], "..") {
		seg.Kind, seg.Index = KindIndex, first
		return nil
	}

	p.pos += 2

	if !p.eof() && p.peek() == '*' {
		p.pos++
		seg.Kind, seg.Start = KindOpen, first

		return nil
	}

	last, err := p.number()
	if err != nil {
		return err
	}

	if last < first {
		return p.fail(ErrDescendingRange)
	}

	seg.Kind, seg.Start, seg.End = KindRange, first, last

	return nil
}

func (p *parser) number() (int, error) {
	start := p.pos

	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}

	if start == p.pos {
		return 0, p.fail(ErrInvalidSelector)
	}

	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, &SyntaxError{Expr: p.src, Offset: start, Err: err}
	}

	return n, nil
}

// keys parses one or more double-quoted strings separated by commas. Each
// string is itself split on commas.
func (p *parser) keys() ([]string, error) {
	var keys []string

	for {
		p.skipSpace()

		if p.eof() || p.peek() != '"' {
			return nil, p.fail(ErrInvalidSelector)
		}

		p.pos++
		start := p.pos

		end := strings.IndexByte(p.src[start:], '"')
		if end < 0 {
			return nil, p.fail(ErrUnterminatedKey)
		}

		for k := range strings.SplitSeq(p.src[start:start+end], ",") {
			keys = append(keys, strings.TrimSpace(k))
		}

		p.pos = start + end + 1
		p.skipSpace()

		if p.eof() || p.peek() != ',' {
			return keys, nil
		}

		p.pos++
	}
}

func (p *parser) skipSpace() {
	for !p.eof() && p.peek() == ' ' {
		p.pos++
	}
}

func validName(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}

		return false
	}

	return true
}

// ApplyRepeat moves a placeholder repetition onto the last segment, where it
// becomes the equivalent selector. A segment that already has a selector cannot
// take a repetition.
func ApplyRepeat(e *Expr, rep *pattern.Repeat) error {
	if rep == nil {
		return nil
	}

	last := &e.Segments[len(e.Segments)-1]
	if last.Kind != KindName {
		return fmt.Errorf("repeat %s on %s: %w", rep, e, ErrAlreadySelected)
	}

	switch rep.Kind {
	case pattern.RepeatCount, pattern.RepeatRange:
		last.Kind, last.Start, last.End = KindRange, rep.Start, rep.End
	case pattern.RepeatOpen:
		last.Kind, last.Start = KindOpen, rep.Start
	case pattern.RepeatUntilNull:
		last.Kind, last.Start = KindWildcard, 0
	default:
		return fmt.Errorf("repeat %s: %w", rep, ErrInvalidSelector)
	}

	return nil
}
