package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// Token is either literal text or a placeholder field.
type Token struct {
	// Literal holds the verbatim text when Field is nil.
	Literal string
	// Field is set for placeholder tokens.
	Field *Field
}

// IsLiteral returns true for literal tokens.
func (t Token) IsLiteral() bool {
	return t.Field == nil
}

// String renders the token back into pattern syntax.
func (t Token) String() string {
	if t.Field == nil {
		return strings.ReplaceAll(t.Literal, "$", "$$")
	}

	return t.Field.String()
}

// Field is a placeholder: a property path expression plus inline overrides.
type Field struct {
	// Expr is the raw property path expression.
	Expr string
	// Width overrides the descriptor width when set.
	Width *int
	// Placeholder overrides the descriptor "no value" text when set.
	Placeholder *string
	// Repeat is set when a [size] suffix follows the placeholder.
	Repeat *Repeat
	// Offset is the byte offset of "${" in the pattern.
	Offset int
}

// String renders the field back into pattern syntax.
func (f *Field) String() string {
	var sb strings.Builder

	sb.WriteString("${")
	sb.WriteString(f.Expr)

	if f.Width != nil || f.Placeholder != nil {
		sb.WriteString(":")

		if f.Width != nil {
			sb.WriteString(strconv.Itoa(*f.Width))
		}
	}

	if f.Placeholder != nil {
		sb.WriteString(":")
		sb.WriteString(*f.Placeholder)
	}

	sb.WriteString("}")

	if f.Repeat != nil {
		sb.WriteString(f.Repeat.String())
	}

	return sb.String()
}

// RepeatKind enumerates the repetition forms.
type RepeatKind int

const (
	RepeatCount     RepeatKind = iota // [n]: indices 0..n-1
	RepeatRange                       // [n..m]: indices n..m inclusive
	RepeatOpen                        // [n..*]: from n until the data is exhausted
	RepeatUntilNull                   // [*]: from 0 until the first missing element
)

// Repeat describes the repetition bounds of a placeholder.
type Repeat struct {
	Kind  RepeatKind
	Start int
	End   int // inclusive; meaningful for RepeatCount and RepeatRange
}

// Bounded returns true if the repetition has a fixed number of elements.
func (r Repeat) Bounded() bool {
	return r.Kind == RepeatCount || r.Kind == RepeatRange
}

// Len returns the number of elements of a bounded repetition.
func (r Repeat) Len() int {
	if !r.Bounded() {
		return -1
	}

	return r.End - r.Start + 1
}

// String renders the repetition in pattern syntax.
func (r Repeat) String() string {
	switch r.Kind {
	case RepeatCount:
		return fmt.Sprintf("[%d]", r.End+1)
	case RepeatRange:
		return fmt.Sprintf("[%d..%d]", r.Start, r.End)
	case RepeatOpen:
		return fmt.Sprintf("[%d..*]", r.Start)
	case RepeatUntilNull:
		return "[*]"
	default:
		return "[?]"
	}
}
