package path

import (
	"strconv"
	"strings"

	"fixed-format/internal/common"
)

// Kind is the selector carried by a segment.
type Kind int

const (
	KindName     Kind = iota // plain name
	KindIndex                // [n]
	KindRange                // [n..m]
	KindOpen                 // [n..*]
	KindWildcard             // [*]
	KindKeys                 // ["k1,k2"]
)

func (k Kind) String() string {
	switch k {
	case KindName:
		return "name"
	case KindIndex:
		return "index"
	case KindRange:
		return "range"
	case KindOpen:
		return "open"
	case KindWildcard:
		return "wildcard"
	case KindKeys:
		return "keys"
	default:
		return common.UnknownStr
	}
}

// Expanding reports whether the selector can address more than one element.
func (k Kind) Expanding() bool {
	return k == KindRange || k == KindOpen || k == KindWildcard || k == KindKeys
}

// Segment is one dotted component of a path.
type Segment struct {
	Name string
	Kind Kind
	// Index is the element of KindIndex.
	Index int
	// Start and End bound KindRange (inclusive); KindOpen uses Start only.
	Start int
	End   int
	// Keys are the map keys of KindKeys, in the order given.
	Keys []string
}

// String renders the segment in expression syntax.
func (s Segment) String() string {
	var sb strings.Builder

	sb.WriteString(s.Name)

	switch s.Kind {
	case KindIndex:
		sb.WriteString("[" + strconv.Itoa(s.Index) + "]")
	case KindRange:
		sb.WriteString("[" + strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End) + "]")
	case KindOpen:
		sb.WriteString("[" + strconv.Itoa(s.Start) + "..*]")
	case KindWildcard:
		sb.WriteString("[*]")
	case KindKeys:
		sb.WriteString(`["` + strings.Join(s.Keys, ",") + `"]`)
	}

	return sb.String()
}

// Expr is a parsed path expression.
type Expr struct {
	Segments []Segment
}

// String renders the expression; parsing the result yields an equal Expr.
func (e Expr) String() string {
	parts := make([]string, len(e.Segments))
	for i, s := range e.Segments {
		parts[i] = s.String()
	}

	return strings.Join(parts, ".")
}

// Last returns the last segment.
func (e Expr) Last() Segment {
	return e.Segments[len(e.Segments)-1]
}
