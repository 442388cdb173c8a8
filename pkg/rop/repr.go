package rop

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// Tuple is a fixed group of heterogeneous values, rendered as (a, b).
type Tuple []any

// Repr renders v deterministically: strings are single-quoted, sequences
// render element-wise as [a, b], tuples as (a, b), maps as {k: v} sorted by
// key, and values implementing fmt.Stringer or error use their own text. A
// pointer, map or slice met again while it is being rendered shows as ...
func Repr(v any) string {
	p := &printer{visiting: map[visit]bool{}}
	p.write(reflect.ValueOf(v))
	return p.sb.String()
}

type printer struct {
	sb strings.Builder
	// pointers, maps and slices on the current path
	visiting map[visit]bool
}

type visit struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

// enter reports false when v is already on the path, after writing the
// back reference in its place.
func (p *printer) enter(v reflect.Value) (visit, bool) {
	key := visit{ptr: v.Pointer(), typ: v.Type()}
	if v.Kind() == reflect.Slice {
		key.n = v.Len()
	}
	if p.visiting[key] {
		p.sb.WriteString("...")
		return key, false
	}
	p.visiting[key] = true
	return key, true
}

func (p *printer) write(v reflect.Value) {
	if !v.IsValid() {
		p.sb.WriteString("nil")
		return
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			p.sb.WriteString("nil")
			return
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		key, ok := p.enter(v)
		if !ok {
			return
		}
		defer delete(p.visiting, key)
	}

	if v.CanInterface() {
		switch t := v.Interface().(type) {
		case Tuple:
			p.seq(reflect.ValueOf([]any(t)), "(", ")", len(t) == 1)
			return
		case fmt.Stringer:
			p.sb.WriteString(t.String())
			return
		case error:
			p.sb.WriteString(t.Error())
			return
		}
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		p.write(v.Elem())
	case reflect.String:
		p.sb.WriteString(quote(v.String()))
	case reflect.Bool:
		p.sb.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		p.sb.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		p.sb.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		p.sb.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits()))
	case reflect.Slice, reflect.Array:
		p.seq(v, "[", "]", false)
	case reflect.Map:
		p.mapping(v)
	case reflect.Struct:
		p.structure(v)
	default:
		fmt.Fprintf(&p.sb, "%v", v)
	}
}

func (p *printer) seq(v reflect.Value, left, right string, trailingComma bool) {
	p.sb.WriteString(left)
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.write(v.Index(i))
	}
	if trailingComma {
		p.sb.WriteString(",")
	}
	p.sb.WriteString(right)
}

func (p *printer) mapping(v reflect.Value) {
	entries := make([][2]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, [2]string{p.sub(iter.Key()), p.sub(iter.Value())})
	}
	slices.SortFunc(entries, func(a, b [2]string) int {
		return strings.Compare(a[0], b[0])
	})

	p.sb.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.sb.WriteString(e[0])
		p.sb.WriteString(": ")
		p.sb.WriteString(e[1])
	}
	p.sb.WriteString("}")
}

func (p *printer) structure(v reflect.Value) {
	t := v.Type()
	p.sb.WriteString(t.Name())
	p.sb.WriteString("{")
	first := true
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if !first {
			p.sb.WriteString(", ")
		}
		first = false
		p.sb.WriteString(f.Name)
		p.sb.WriteString(": ")
		p.write(v.Field(i))
	}
	p.sb.WriteString("}")
}

// sub renders v on its own, sharing the current path.
func (p *printer) sub(v reflect.Value) string {
	s := &printer{visiting: p.visiting}
	s.write(v)
	return s.sb.String()
}

func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var sb strings.Builder
	sb.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			sb.WriteString(`\\`)
		case r == rune(q):
			sb.WriteByte('\\')
			sb.WriteByte(q)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\t':
			sb.WriteString(`\t`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, `\x%02x`, r)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}
