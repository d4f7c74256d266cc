package path

import (
	"strconv"
	"strings"

	"fixed-format/descriptor"
	fferrors "fixed-format/errors"
	"fixed-format/schema"
)

// StepKind is how one navigation step moves through a value.
type StepKind int

const (
	StepField StepKind = iota
	StepIndex
	StepKey
)

// Step is one move from a value to a part of it.
type Step struct {
	Kind  StepKind
	Field *schema.Field // StepField
	Index int           // StepIndex
	Key   string        // StepKey
}

// Open marks a resolved path that continues element by element from Start
// until the list is exhausted, or for UntilNull, until the first missing element.
type Open struct {
	Start     int
	UntilNull bool
}

// Resolved is one concrete path produced by Resolve.
type Resolved struct {
	// Path is the fully-qualified concrete path, for example "holder.items[3]".
	// For open paths it is the path of the list itself.
	Path string
	// Field is the schema field the path ends at.
	Field *schema.Field
	// Descriptor describes the addressed value.
	Descriptor descriptor.Descriptor
	// Steps navigate from the root object to the value.
	Steps []Step
	// Open is set for [n..*] and [*]; Steps then lead to the list.
	Open *Open
}

// At returns the concrete element i of an open path.
func (r Resolved) At(i int) Resolved {
	out := r
	out.Open = nil
	out.Path = r.Path + "[" + strconv.Itoa(i) + "]"
	out.Steps = append(append([]Step(nil), r.Steps...), Step{Kind: StepIndex, Index: i})

	return out
}

// Resolve parses expr and expands it against idx. A name that is not found
// yields an empty result and no error: the caller may treat the expression as
// a discriminator name.
func Resolve(expr string, idx *schema.Index) ([]Resolved, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, fferrors.WrapSchema(idx.Type.String(), expr, "invalid property path", err)
	}

	return ResolveExpr(e, idx)
}

// ResolveExpr expands a parsed expression against idx.
func ResolveExpr(e *Expr, idx *schema.Index) ([]Resolved, error) {
	var (
		cur    = idx
		steps  []Step
		prefix []string
	)

	for i, seg := range e.Segments {
		chain, err := cur.Find(seg.Name)
		if err != nil {
			return nil, err
		}

		if chain == nil {
			return nil, nil
		}

		for _, f := range chain {
			steps = append(steps, Step{Kind: StepField, Field: f})
			prefix = append(prefix, f.Name)
		}

		f := chain[len(chain)-1]
		last := i == len(e.Segments)-1

		if err := checkSelector(idx, e, seg, f, last); err != nil {
			return nil, err
		}

		if last {
			return expand(strings.Join(prefix, "."), steps, seg, f), nil
		}

		if seg.Kind == KindIndex {
			steps = append(steps, Step{Kind: StepIndex, Index: seg.Index})
			prefix[len(prefix)-1] += "[" + strconv.Itoa(seg.Index) + "]"
		}

		nested, err := f.Nested()
		if err != nil {
			return nil, err
		}

		cur = nested
	}

	return nil, nil
}

func checkSelector(root *schema.Index, e *Expr, seg Segment, f *schema.Field, last bool) error {
	switch seg.Kind {
	case KindName:
		if f.IsCollection() && !last {
			return fferrors.Schemaf(root.Type.String(), e.String(), "segment %q addresses a %s without a selector", seg.Name, f.Kind)
		}
	case KindKeys:
		if f.Kind != schema.Map {
			return fferrors.Schemaf(root.Type.String(), e.String(), "key selector on %s field %q", f.Kind, seg.Name)
		}
	default:
		if f.Kind != schema.List {
			return fferrors.Schemaf(root.Type.String(), e.String(), "%s selector on %s field %q", seg.Kind, f.Kind, seg.Name)
		}
	}

	return nil
}

func expand(prefix string, steps []Step, seg Segment, f *schema.Field) []Resolved {
	elem := func(suffix string, extra Step) Resolved {
		return Resolved{
			Path:       prefix + suffix,
			Field:      f,
			Descriptor: f.Descriptor,
			Steps:      append(append([]Step(nil), steps...), extra),
		}
	}

	switch seg.Kind {
	case KindIndex:
		return []Resolved{elem("["+strconv.Itoa(seg.Index)+"]", Step{Kind: StepIndex, Index: seg.Index})}
	case KindRange:
		out := make([]Resolved, 0, seg.End-seg.Start+1)
		for i := seg.Start; i <= seg.End; i++ {
			out = append(out, elem("["+strconv.Itoa(i)+"]", Step{Kind: StepIndex, Index: i}))
		}

		return out
	case KindKeys:
		out := make([]Resolved, 0, len(seg.Keys))
		for _, k := range seg.Keys {
			out = append(out, elem("["+strconv.Quote(k)+"]", Step{Kind: StepKey, Key: k}))
		}

		return out
	case KindOpen, KindWildcard:
		return []Resolved{{
			Path:       prefix,
			Field:      f,
			Descriptor: f.Descriptor,
			Steps:      steps,
			Open:       &Open{Start: seg.Start, UntilNull: seg.Kind == KindWildcard},
		}}
	default:
		d := f.Descriptor
		if f.IsCollection() {
			d = d.WithTarget(f.Type)
		}

		return []Resolved{{Path: prefix, Field: f, Descriptor: d, Steps: steps}}
	}
}
