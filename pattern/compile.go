package pattern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	ErrUnterminatedRepeat      = errors.New("unterminated repetition")
	ErrEmptyExpression         = errors.New("empty property path expression")
	ErrInvalidWidth            = errors.New("invalid inline width")
	ErrInvalidRepeat           = errors.New("invalid repetition")
)

// SyntaxError locates a compilation failure inside the pattern.
type SyntaxError struct {
	Pattern string
	Offset  int
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("pattern %q at offset %d: %v", e.Pattern, e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Compile tokenizes a pattern into literal runs and placeholder fields.
func Compile(pattern string) ([]Token, error) {
	c := compiler{src: pattern}
	return c.run()
}

type compiler struct {
	src    string
	pos    int
	tokens []Token
	lit    strings.Builder
}

func (c *compiler) fail(offset int, err error) error {
	return &SyntaxError{Pattern: c.src, Offset: offset, Err: err}
}

func (c *compiler) flush() {
	if c.lit.Len() == 0 {
		return
	}

	c.tokens = append(c.tokens, Token{Literal: c.lit.String()})
	c.lit.Reset()
}

func (c *compiler) run() ([]Token, error) {
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch != '$' || c.pos+1 >= len(c.src) {
			c.lit.WriteByte(ch)
			c.pos++

			continue
		}

		switch c.src[c.pos+1] {
		case '$':
			c.lit.WriteByte('$')
			c.pos += 2
		case '{':
			c.flush()

			field, err := c.placeholder()
			if err != nil {
				return nil, err
			}

			c.tokens = append(c.tokens, Token{Field: field})
		default:
			c.lit.WriteByte(ch)
			c.pos++
		}
	}

	c.flush()

	return c.tokens, nil
}

// placeholder consumes "${...}" and an optional "[size]" suffix starting at c.pos.
func (c *compiler) placeholder() (*Field, error) {
	start := c.pos
	bodyStart := start + 2

	end, err := scanBody(c.src, bodyStart)
	if err != nil {
		return nil, c.fail(start, err)
	}

	field, err := parseBody(c.src[bodyStart:end])
	if err != nil {
		return nil, c.fail(start, err)
	}

	field.Offset = start
	c.pos = end + 1

	if c.pos < len(c.src) && c.src[c.pos] == '[' {
		rep, n, err := scanRepeat(c.src[c.pos:])
		if err != nil {
			return nil, c.fail(c.pos, err)
		}

		if rep != nil {
			field.Repeat = rep
			c.pos += n
		}
	}

	return field, nil
}

// scanBody returns the index of the '}' closing a placeholder body. Braces inside
// brackets or double quotes do not terminate the body.
func scanBody(src string, from int) (int, error) {
	depth := 0
	quoted := false

	for i := from; i < len(src); i++ {
		switch ch := src[i]; {
		case quoted:
			if ch == '"' {
				quoted = false
			}
		case ch == '"':
			quoted = true
		case ch == '[':
			depth++
		case ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == '}' && depth == 0:
			return i, nil
		}
	}

	return -1, ErrUnterminatedPlaceholder
}

// parseBody splits "expr:width:placeholder" on top-level colons. The placeholder part
// keeps any further colons verbatim.
func parseBody(body string) (*Field, error) {
	parts := splitBody(body)

	expr := strings.TrimSpace(parts[0])
	if expr == "" {
		return nil, ErrEmptyExpression
	}

	field := &Field{Expr: expr}

	if len(parts) > 1 {
		w := strings.TrimSpace(parts[1])
		if w != "" {
			n, err := strconv.Atoi(w)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w %q", ErrInvalidWidth, parts[1])
			}

			field.Width = &n
		}
	}

	if len(parts) > 2 {
		p := parts[2]
		field.Placeholder = &p
	}

	return field, nil
}

func splitBody(body string) []string {
	var parts []string

	depth := 0
	quoted := false
	last := 0

	for i := 0; i < len(body) && len(parts) < 2; i++ {
		switch ch := body[i]; {
		case quoted:
			if ch == '"' {
				quoted = false
			}
		case ch == '"':
			quoted = true
		case ch == '[':
			depth++
		case ch == ']':
			if depth > 0 {
				depth--
			}
		case ch == ':' && depth == 0:
			parts = append(parts, body[last:i])
			last = i + 1
		}
	}

	return append(parts, body[last:])
}

// scanRepeat parses a "[size]" suffix. It returns a nil Repeat when the bracket does
// not start a size expression, in which case the bracket is literal text.
func scanRepeat(src string) (*Repeat, int, error) {
	if len(src) < 2 {
		return nil, 0, nil
	}

	first := src[1]
	if first != '*' && (first < '0' || first > '9') {
		return nil, 0, nil
	}

	closing := strings.IndexByte(src, ']')
	if closing < 0 {
		return nil, 0, ErrUnterminatedRepeat
	}

	rep, err := ParseRepeat(src[1:closing])
	if err != nil {
		return nil, 0, err
	}

	return rep, closing + 1, nil
}

// ParseRepeat parses the inside of a "[size]" suffix: "n", "n..m", "n..*" or "*".
func ParseRepeat(s string) (*Repeat, error) {
	s = strings.TrimSpace(s)

	if s == "*" {
		return &Repeat{Kind: RepeatUntilNull}, nil
	}

	lo, hi, isRange := strings.Cut(s, "..")
	if !isRange {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w %q", ErrInvalidRepeat, s)
		}

		return &Repeat{Kind: RepeatCount, Start: 0, End: n - 1}, nil
	}

	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil || start < 0 {
		return nil, fmt.Errorf("%w %q: bad start", ErrInvalidRepeat, s)
	}

	hi = strings.TrimSpace(hi)
	if hi == "*" {
		return &Repeat{Kind: RepeatOpen, Start: start, End: -1}, nil
	}

	end, err := strconv.Atoi(hi)
	if err != nil || end < start {
		return nil, fmt.Errorf("%w %q: bad end", ErrInvalidRepeat, s)
	}

	return &Repeat{Kind: RepeatRange, Start: start, End: end}, nil
}

// Fields returns the placeholder fields of a token list in order.
func Fields(tokens []Token) []*Field {
	var out []*Field

	for _, t := range tokens {
		if t.Field != nil {
			out = append(out, t.Field)
		}
	}

	return out
}
