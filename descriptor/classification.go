package descriptor

import (
	"fmt"
	"strings"

	"fixed-format/internal/common"
)

// Classification selects how a value is rendered inside its positions.
type Classification int

const (
	ClassDefault      Classification = iota // converter decides
	ClassAlphanumeric                       // left aligned, space padded
	ClassNumeric                            // right aligned, zero padded
	ClassBinary                             // hex encoded bytes
)

// String returns the lower-case classification name.
func (c Classification) String() string {
	switch c {
	case ClassDefault:
		return "default"
	case ClassAlphanumeric:
		return "alphanumeric"
	case ClassNumeric:
		return "numeric"
	case ClassBinary:
		return "binary"
	default:
		return common.UnknownStr
	}
}

// ParseClassification parses a classification name. Short forms "a", "n", "b" are accepted.
func ParseClassification(s string) (Classification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return ClassDefault, nil
	case "alphanumeric", "alpha", "a":
		return ClassAlphanumeric, nil
	case "numeric", "n":
		return ClassNumeric, nil
	case "binary", "b":
		return ClassBinary, nil
	default:
		return ClassDefault, fmt.Errorf("unknown classification %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Classification) UnmarshalText(text []byte) error {
	parsed, err := ParseClassification(string(text))
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
