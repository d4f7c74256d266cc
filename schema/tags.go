package schema

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"fixed-format/descriptor"
)

// TagKey is the struct tag key read by the schema builder.
const TagKey = "fixed"

// Tag is the parsed form of a `fixed` struct tag.
type Tag struct {
	Name      string
	Skip      bool
	Container bool
	Value     bool
	Override  descriptor.Override
}

// ParseTag parses `name,width=8,scale=2,class=numeric,format=..,placeholder=..,locale=..,
// zone=..,converter=..,readonly,container,value`. Values may be single-quoted to
// contain commas.
func ParseTag(tag string) (Tag, error) {
	var info Tag

	if tag == "-" {
		info.Skip = true
		return info, nil
	}

	parts := splitTag(tag)
	if len(parts) == 0 {
		return info, nil
	}

	info.Name = strings.TrimSpace(parts[0])

	for _, part := range parts[1:] {
		key, val, hasVal := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		val = unquoteTagValue(val)

		switch key {
		case "":
			continue
		case "container":
			info.Container = true
		case "value":
			info.Value = true
		case "readonly":
			b := true
			if hasVal {
				parsed, err := strconv.ParseBool(val)
				if err != nil {
					return info, fmt.Errorf("tag option readonly: %w", err)
				}

				b = parsed
			}

			info.Override.ReadOnly = &b
		case "width", "scale":
			n, err := strconv.Atoi(val)
			if err != nil {
				return info, fmt.Errorf("tag option %s: %w", key, err)
			}

			if key == "width" {
				info.Override.Width = &n
			} else {
				info.Override.Scale = &n
			}
		case "class":
			c, err := descriptor.ParseClassification(val)
			if err != nil {
				return info, fmt.Errorf("tag option class: %w", err)
			}

			info.Override.Class = &c
		case "format":
			info.Override.Format = &val
		case "placeholder":
			info.Override.Placeholder = &val
		case "locale":
			info.Override.Locale = &val
		case "zone":
			info.Override.Zone = &val
		case "converter":
			info.Override.Converter = &val
		default:
			return info, fmt.Errorf("unknown tag option %q", key)
		}
	}

	return info, nil
}

// splitTag splits on commas outside single quotes.
func splitTag(tag string) []string {
	var (
		parts  []string
		quoted bool
		last   int
	)

	for i := 0; i < len(tag); i++ {
		switch tag[i] {
		case '\'':
			quoted = !quoted
		case ',':
			if !quoted {
				parts = append(parts, tag[last:i])
				last = i + 1
			}
		}
	}

	return append(parts, tag[last:])
}

func unquoteTagValue(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return v[1 : len(v)-1]
	}

	return v
}

// LogicalName derives the default logical name of a Go field the way bean property
// names are derived: the first letter is lowered unless the first two letters are both
// upper case ("BankCode" -> "bankCode", "MTI" -> "MTI", "URL" -> "URL").
func LogicalName(goName string) string {
	runes := []rune(goName)
	if len(runes) == 0 {
		return goName
	}

	if len(runes) > 1 && unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1]) {
		return goName
	}

	runes[0] = unicode.ToLower(runes[0])

	return string(runes)
}
