package convert

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"fixed-format/descriptor"
)

// enumConverter writes an enumeration by ordinal when the field is numeric
// and by name otherwise.
type enumConverter struct {
	t       reflect.Type
	names   []string
	ordinal map[string]int
}

func newEnumConverter(t reflect.Type, names []string) *enumConverter {
	c := &enumConverter{t: t, names: append([]string(nil), names...), ordinal: make(map[string]int, len(names))}
	for i, n := range names {
		c.ordinal[n] = i
	}

	return c
}

func (c *enumConverter) index(v reflect.Value) int64 {
	if v.CanInt() {
		return v.Int()
	}

	return int64(v.Uint())
}

func (c *enumConverter) Format(d descriptor.Descriptor, v reflect.Value) (string, error) {
	i := c.index(v)
	if i < 0 || i >= int64(len(c.names)) {
		return "", fmt.Errorf("%d is not an ordinal of %s", i, c.t)
	}

	if d.Class == descriptor.ClassNumeric {
		return PadLeft(strconv.FormatInt(i, 10), d.Width, '0'), nil
	}

	return PadRight(c.names[i], d.Width, ' '), nil
}

func (c *enumConverter) Parse(d descriptor.Descriptor, text string) (reflect.Value, error) {
	s := strings.TrimSpace(text)
	if s == "" || s == d.Placeholder {
		return reflect.Value{}, nil
	}

	var i int

	if d.Class == descriptor.ClassNumeric {
		n, err := strconv.Atoi(s)
		if err != nil {
			return reflect.Value{}, err
		}

		if n < 0 || n >= len(c.names) {
			return reflect.Value{}, fmt.Errorf("%d is not an ordinal of %s", n, c.t)
		}

		i = n
	} else {
		n, ok := c.ordinal[s]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%q is not a constant of %s", s, c.t)
		}

		i = n
	}

	return reflect.ValueOf(i).Convert(c.t), nil
}
