package path

import (
	"fmt"
	"reflect"

	fferrors "fixed-format/errors"
	"fixed-format/subtype"
)

// Get follows steps from root. Nil pointers, nil interfaces, missing map keys
// and out-of-range indexes along the way yield ok == false instead of
// panicking. The returned value has pointers and interfaces removed.
func Get(root reflect.Value, steps []Step) (reflect.Value, bool) {
	v := root

	for _, st := range steps {
		var ok bool
		if v, ok = indirect(v); !ok {
			return reflect.Value{}, false
		}

		switch st.Kind {
		case StepField:
			if v.Kind() != reflect.Struct || !hasFieldIndex(v.Type(), st.Field.Index) {
				return reflect.Value{}, false
			}

			v = v.FieldByIndex(st.Field.Index)
		case StepIndex:
			if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || st.Index >= v.Len() {
				return reflect.Value{}, false
			}

			v = v.Index(st.Index)
		case StepKey:
			if v.Kind() != reflect.Map || v.IsNil() {
				return reflect.Value{}, false
			}

			v = v.MapIndex(reflect.ValueOf(st.Key).Convert(v.Type().Key()))
			if !v.IsValid() {
				return reflect.Value{}, false
			}
		}
	}

	return indirect(v)
}

// Len returns the length of the list the steps lead to, or 0 when it is absent.
func Len(root reflect.Value, steps []Step) int {
	v, ok := Get(root, steps)
	if !ok || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return 0
	}

	return v.Len()
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}

		v = v.Elem()
	}

	return v, v.IsValid()
}

// hasFieldIndex guards against steps built for another struct type, which
// happens when an interface holds a type other than the one indexed.
func hasFieldIndex(t reflect.Type, index []int) bool {
	for _, i := range index {
		if t.Kind() != reflect.Struct || i >= t.NumField() {
			return false
		}

		t = t.Field(i).Type
	}

	return true
}

// Set assigns val at the end of steps, creating nil pointers, nil maps, short
// slices and map entries on the way. root must be settable, usually the Elem
// of a pointer.
func Set(root reflect.Value, steps []Step, val reflect.Value) error {
	if !root.CanSet() {
		return fmt.Errorf("set %s: root value is not settable", root.Type())
	}

	return set(root, steps, val)
}

func set(v reflect.Value, steps []Step, val reflect.Value) error {
	if len(steps) == 0 {
		return assign(v, val)
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}

		v = v.Elem()
	}

	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return fferrors.Schemaf(v.Type().String(), "", "cannot create a value of interface type %s on the way to a field", v.Type())
		}

		inner := v.Elem()
		if inner.Kind() == reflect.Pointer {
			return set(inner, steps, val)
		}

		// Values stored in interfaces are not addressable: update a copy.
		tmp := reflect.New(inner.Type()).Elem()
		tmp.Set(inner)

		if err := set(tmp, steps, val); err != nil {
			return err
		}

		v.Set(tmp)

		return nil
	}

	st, rest := steps[0], steps[1:]

	switch st.Kind {
	case StepField:
		if v.Kind() != reflect.Struct || !hasFieldIndex(v.Type(), st.Field.Index) {
			return fferrors.Schemaf(v.Type().String(), st.Field.Name, "field does not belong to %s", v.Type())
		}

		return set(v.FieldByIndex(st.Field.Index), rest, val)

	case StepIndex:
		switch v.Kind() {
		case reflect.Slice:
			if st.Index >= v.Len() {
				grown := reflect.MakeSlice(v.Type(), st.Index+1, max(st.Index+1, v.Cap()))
				reflect.Copy(grown, v)
				v.Set(grown)
			}
		case reflect.Array:
			if st.Index >= v.Len() {
				return fmt.Errorf("index %d out of range for %s", st.Index, v.Type())
			}
		default:
			return fmt.Errorf("index %d on non-list %s", st.Index, v.Type())
		}

		return set(v.Index(st.Index), rest, val)

	case StepKey:
		if v.Kind() != reflect.Map {
			return fmt.Errorf("key %q on non-map %s", st.Key, v.Type())
		}

		if v.IsNil() {
			v.Set(reflect.MakeMap(v.Type()))
		}

		key := reflect.ValueOf(st.Key).Convert(v.Type().Key())

		entry := reflect.New(v.Type().Elem()).Elem()
		if existing := v.MapIndex(key); existing.IsValid() {
			entry.Set(existing)
		}

		if err := set(entry, rest, val); err != nil {
			return err
		}

		v.SetMapIndex(key, entry)

		return nil
	}

	return fmt.Errorf("unknown step kind %d", st.Kind)
}

func assign(slot, val reflect.Value) error {
	if boxed, ok := subtype.Box(slot.Type(), val); ok {
		slot.Set(boxed)
		return nil
	}

	if slot.Kind() == reflect.Pointer && sameKindConvertible(val.Type(), slot.Type().Elem()) {
		p := reflect.New(slot.Type().Elem())
		p.Elem().Set(val.Convert(slot.Type().Elem()))
		slot.Set(p)

		return nil
	}

	if sameKindConvertible(val.Type(), slot.Type()) {
		slot.Set(val.Convert(slot.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %s to %s", val.Type(), slot.Type())
}

// sameKindConvertible allows conversions between named and unnamed forms of
// one kind only, so an int never becomes a one-rune string.
func sameKindConvertible(from, to reflect.Type) bool {
	return from.Kind() == to.Kind() && from.ConvertibleTo(to)
}
