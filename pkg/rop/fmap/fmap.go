package fmap

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/ib-77/ropize/pkg/rop"
	"github.com/ib-77/ropize/pkg/rop/ize"
)

func kindsConfig(kinds []rop.Kind) ize.Config {
	if len(kinds) == 0 {
		return ize.Config{}
	}
	return ize.Config{}.Only(kinds...)
}

// TransformExcept applies fn to the success payload of input. Faults of the
// given kinds (rop.DefaultKinds when none are given) become failures; other
// errors are returned and other panics re-raised.
func TransformExcept[In, Out any](input rop.Outcome[In],
	fn func(In) (Out, error), kinds ...rop.Kind) (rop.Outcome[Out], error) {

	return TransformExceptWith(kindsConfig(kinds), input, fn)
}

func TransformExceptWith[In, Out any](cfg ize.Config, input rop.Outcome[In],
	fn func(In) (Out, error)) (rop.Outcome[Out], error) {

	if input.IsFailure() {
		return rop.FailFrom[Out](input), nil
	}

	if cfg.Name == "" {
		cfg.Name = rop.FuncName(fn)
	}
	v, _ := input.Value()
	return ize.Run(cfg, func() (Out, error) {
		return fn(v)
	})
}

var accessKinds = []rop.Kind{rop.KindOutOfRange, rop.KindMissingKey}

func accessConfig(name string) ize.Config {
	return ize.Config{Name: name}.Only(accessKinds...)
}

// Index returns the i-th element of a slice payload.
func Index[S ~[]E, E any](input rop.Outcome[S], i int) (rop.Outcome[E], error) {
	return TransformExceptWith(accessConfig(fmt.Sprintf("index[%d]", i)), input, func(s S) (E, error) {
		return s[i], nil
	})
}

// Key returns the element stored under k in a map payload.
func Key[M ~map[K]V, K comparable, V any](input rop.Outcome[M], k K) (rop.Outcome[V], error) {
	return TransformExceptWith(accessConfig(fmt.Sprintf("key[%v]", k)), input, func(m M) (V, error) {
		v, ok := m[k]
		if !ok {
			return v, rop.MissingKeyError.New("%v", k)
		}
		return v, nil
	})
}

// OnlyOne returns the single element of a slice payload. Any other length is
// captured as an out-of-range fault.
func OnlyOne[S ~[]E, E any](input rop.Outcome[S]) (rop.Outcome[E], error) {
	return TransformExceptWith(accessConfig("only one"), input, func(s S) (E, error) {
		if len(s) != 1 {
			var zero E
			return zero, rop.OutOfRangeError.New("got %d items", len(s))
		}
		return s[0], nil
	})
}

// IndexAny accesses slices, arrays, strings and maps held in a dynamically
// typed payload. Pointers are followed. A key of the wrong type is a plain
// error and therefore not captured.
func IndexAny(input rop.Outcome[any], key any) (rop.Outcome[any], error) {
	return TransformExceptWith(accessConfig(fmt.Sprintf("index[%v]", key)), input, func(v any) (any, error) {
		return indexValue(reflect.ValueOf(v), key)
	})
}

func indexValue(c reflect.Value, key any) (any, error) {
	for c.IsValid() && (c.Kind() == reflect.Ptr || c.Kind() == reflect.Interface) {
		if c.IsNil() {
			return nil, fmt.Errorf("cannot index nil %s", c.Type())
		}
		c = c.Elem()
	}
	if !c.IsValid() {
		return nil, errors.New("cannot index nil")
	}

	switch c.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		k := reflect.ValueOf(key)
		var i int64
		switch {
		case k.IsValid() && k.CanInt():
			i = k.Int()
		case k.IsValid() && k.CanUint():
			if k.Uint() >= uint64(c.Len()) {
				return nil, rop.OutOfRangeError.New("index %d with length %d", k.Uint(), c.Len())
			}
			i = int64(k.Uint())
		default:
			return nil, fmt.Errorf("cannot index %s with %T", c.Type(), key)
		}
		if i < 0 || i >= int64(c.Len()) {
			return nil, rop.OutOfRangeError.New("index %d with length %d", i, c.Len())
		}
		return c.Index(int(i)).Interface(), nil

	case reflect.Map:
		k := reflect.ValueOf(key)
		kt := c.Type().Key()
		switch {
		case !k.IsValid():
			return nil, fmt.Errorf("cannot use nil key for %s", c.Type())
		case k.Type().AssignableTo(kt):
		case k.Type().ConvertibleTo(kt) && k.Kind() == kt.Kind():
			k = k.Convert(kt)
		default:
			return nil, fmt.Errorf("cannot use %T as key for %s", key, c.Type())
		}
		v := c.MapIndex(k)
		if !v.IsValid() {
			return nil, rop.MissingKeyError.New("%v", key)
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("cannot index %s", c.Type())
}

// ParseInt parses the string payload as a base 10 int. Surrounding
// whitespace is ignored and single underscores may group digits, as in
// " 1_000 ". Only malformed numbers are captured.
func ParseInt(input rop.Outcome[string]) (rop.Outcome[int], error) {
	cfg := ize.Config{Name: "strconv.Atoi"}.Only(rop.KindNumberFormat)
	return TransformExceptWith(cfg, input, func(s string) (int, error) {
		return strconv.Atoi(numeral(s))
	})
}

// numeral trims s and drops underscores that sit between two digits. Any
// other underscore is kept so that parsing rejects it.
func numeral(s string) string {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "_") {
		return s
	}
	isDigit := func(i int) bool { return i >= 0 && i < len(s) && s[i] >= '0' && s[i] <= '9' }

	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '_' {
			if !isDigit(i-1) || !isDigit(i+1) {
				return s
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// ParseIntN parses the string payload into the integer type N, accepting the
// same spellings as ParseInt. Malformed
// numbers and values that do not fit N are captured.
func ParseIntN[N constraints.Integer](input rop.Outcome[string]) (rop.Outcome[N], error) {
	t := reflect.TypeOf(N(0))
	cfg := ize.Config{Name: "parse " + t.String()}.Only(rop.KindNumberFormat, rop.KindNumberRange)
	return TransformExceptWith(cfg, input, func(s string) (N, error) {
		s = numeral(s)
		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u, err := strconv.ParseUint(s, 10, t.Bits())
			return N(u), err
		default:
			i, err := strconv.ParseInt(s, 10, t.Bits())
			return N(i), err
		}
	})
}

// MapEach applies fn to every item. Each call is captured independently, so
// the returned slice always has one Outcome per item, in order. A fault
// outside the allow-list stops the iteration: its error is returned, a
// panic is re-raised.
func MapEach[In, Out any](items []In, fn func(In) (Out, error), kinds ...rop.Kind) ([]rop.Outcome[Out], error) {
	cfg := kindsConfig(kinds)
	cfg.Name = rop.FuncName(fn)

	out := make([]rop.Outcome[Out], 0, len(items))
	for _, item := range items {
		res, err := ize.Run(cfg, func() (Out, error) {
			return fn(item)
		})
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Then chains a step that already returns an Outcome.
func Then[In, Out any](input rop.Outcome[In], onSuccess func(In) rop.Outcome[Out]) rop.Outcome[Out] {
	if v, ok := input.Value(); ok {
		return onSuccess(v)
	}
	return rop.FailFrom[Out](input)
}

func Tee[T any](input rop.Outcome[T], onSuccess func(T)) rop.Outcome[T] {
	if v, ok := input.Value(); ok {
		onSuccess(v)
	}
	return input
}

// Collect turns all-success outcomes into one success holding every value,
// or returns the first failure.
func Collect[T any](inputs []rop.Outcome[T]) rop.Outcome[[]T] {
	values := make([]T, 0, len(inputs))
	for _, in := range inputs {
		v, ok := in.Value()
		if !ok {
			return rop.FailFrom[[]T](in)
		}
		values = append(values, v)
	}
	return rop.Success[[]T, rop.Fault](values)
}

// Faults joins the faults of all failed outcomes, nil when none failed.
func Faults[T any](inputs []rop.Outcome[T]) error {
	var errs []error
	for _, in := range inputs {
		if f, ok := in.Err(); ok {
			errs = append(errs, f)
		}
	}
	return errors.Join(errs...)
}
