package memo

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// keyWriter encodes a value into a canonical string. The encoding carries
// the dynamic type of the root and of every interface value, reads
// unexported fields and follows pointers, so two arguments share a key only
// when they are structurally equal with identical types.
type keyWriter struct {
	sb strings.Builder
	// pointers, maps and slices on the current path
	visiting map[visit]bool
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

func encodeKey(args any) (string, error) {
	w := &keyWriter{visiting: map[visit]bool{}}
	if err := w.typed(reflect.ValueOf(args)); err != nil {
		return "", err
	}
	return w.sb.String(), nil
}

func typeName(t reflect.Type) string {
	if t.PkgPath() != "" {
		return t.PkgPath() + "." + t.String()
	}
	return t.String()
}

func (w *keyWriter) typed(v reflect.Value) error {
	if !v.IsValid() {
		w.sb.WriteString("nil")
		return nil
	}
	w.sb.WriteString(typeName(v.Type()))
	w.sb.WriteByte('=')
	return w.write(v)
}

// enter reports false when v is already on the path; the caller then writes
// a back reference instead of descending.
func (w *keyWriter) enter(v reflect.Value, n int) (visit, bool) {
	key := visit{ptr: v.Pointer(), typ: v.Type(), n: n}
	if w.visiting[key] {
		w.sb.WriteString("@cycle")
		return key, false
	}
	w.visiting[key] = true
	return key, true
}

func (w *keyWriter) write(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		w.sb.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		w.sb.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		w.sb.WriteString(strconv.FormatUint(math.Float64bits(v.Float()), 16))
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		w.sb.WriteString(strconv.FormatUint(math.Float64bits(real(c)), 16))
		w.sb.WriteByte(',')
		w.sb.WriteString(strconv.FormatUint(math.Float64bits(imag(c)), 16))
	case reflect.String:
		w.sb.WriteString(strconv.Quote(v.String()))

	case reflect.Interface:
		if v.IsNil() {
			w.sb.WriteString("nil")
			return nil
		}
		return w.typed(v.Elem())

	case reflect.Ptr:
		if v.IsNil() {
			w.sb.WriteString("nil")
			return nil
		}
		key, ok := w.enter(v, 0)
		if !ok {
			return nil
		}
		defer delete(w.visiting, key)
		w.sb.WriteByte('&')
		return w.write(v.Elem())

	case reflect.Slice:
		if v.IsNil() {
			w.sb.WriteString("nil")
			return nil
		}
		key, ok := w.enter(v, v.Len())
		if !ok {
			return nil
		}
		defer delete(w.visiting, key)
		return w.seq(v)

	case reflect.Array:
		return w.seq(v)

	case reflect.Map:
		if v.IsNil() {
			w.sb.WriteString("nil")
			return nil
		}
		key, ok := w.enter(v, 0)
		if !ok {
			return nil
		}
		defer delete(w.visiting, key)
		return w.mapping(v)

	case reflect.Struct:
		w.sb.WriteByte('{')
		for i := 0; i < v.NumField(); i++ {
			if i > 0 {
				w.sb.WriteByte(',')
			}
			if err := w.write(v.Field(i)); err != nil {
				return err
			}
		}
		w.sb.WriteByte('}')

	default:
		return Error.New("cannot key a value of type %s", v.Type())
	}
	return nil
}

func (w *keyWriter) seq(v reflect.Value) error {
	w.sb.WriteByte('[')
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			w.sb.WriteByte(',')
		}
		if err := w.write(v.Index(i)); err != nil {
			return err
		}
	}
	w.sb.WriteByte(']')
	return nil
}

func (w *keyWriter) mapping(v reflect.Value) error {
	entries := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		sub := &keyWriter{visiting: w.visiting}
		if err := sub.write(iter.Key()); err != nil {
			return err
		}
		sub.sb.WriteByte(':')
		if err := sub.write(iter.Value()); err != nil {
			return err
		}
		entries = append(entries, sub.sb.String())
	}
	slices.Sort(entries)

	w.sb.WriteByte('{')
	w.sb.WriteString(strings.Join(entries, ","))
	w.sb.WriteByte('}')
	return nil
}
