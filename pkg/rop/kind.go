package rop

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/zeebo/errs"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	// InvariantError marks programming errors such as touching a Result that
	// was never built. Faults of this class are never captured.
	InvariantError = errs.Class("rop invariant")
	// MissingKeyError is returned by key lookups on maps without the key.
	MissingKeyError = errs.Class("missing key")
	// OutOfRangeError is returned by index lookups outside a sequence.
	OutOfRangeError = errs.Class("out of range")
)

// Kind classifies a fault.
type Kind string

const (
	KindError          Kind = "error"
	KindNumberFormat   Kind = "number-format"
	KindNumberRange    Kind = "number-range"
	KindOutOfRange     Kind = "out-of-range"
	KindMissingKey     Kind = "missing-key"
	KindNilDereference Kind = "nil-dereference"
	KindDivideByZero   Kind = "divide-by-zero"
	KindTypeAssertion  Kind = "type-assertion"
	KindCanceled       Kind = "canceled"
	KindDeadline       Kind = "deadline-exceeded"
	KindRuntime        Kind = "runtime"
	KindPanic          Kind = "panic"
	KindInvariant      Kind = "invariant"
)

// Error lets a Kind be used as an errors.Is target against a Fault.
func (k Kind) Error() string {
	return string(k)
}

// Kinds is an allow-list of fault kinds.
type Kinds map[Kind]struct{}

func NewKinds(kinds ...Kind) Kinds {
	ks := make(Kinds, len(kinds))
	for _, k := range kinds {
		ks[k] = struct{}{}
	}
	return ks
}

// DefaultKinds lists every recoverable fault kind. Explicit panics with
// arbitrary values and invariant violations are left out.
func DefaultKinds() Kinds {
	return NewKinds(
		KindError,
		KindNumberFormat,
		KindNumberRange,
		KindOutOfRange,
		KindMissingKey,
		KindNilDereference,
		KindDivideByZero,
		KindTypeAssertion,
		KindCanceled,
		KindDeadline,
		KindRuntime,
	)
}

// Has reports membership. KindInvariant is never a member.
func (ks Kinds) Has(k Kind) bool {
	if k == KindInvariant {
		return false
	}
	_, ok := ks[k]
	return ok
}

func (ks Kinds) Union(other Kinds) Kinds {
	out := make(Kinds, len(ks)+len(other))
	for k := range ks {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

func (ks Kinds) String() string {
	keys := maps.Keys(ks)
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// ClassifyError maps a returned error to its Kind.
func ClassifyError(err error) Kind {
	var numErr *strconv.NumError
	switch {
	case InvariantError.Has(err):
		return KindInvariant
	case MissingKeyError.Has(err):
		return KindMissingKey
	case OutOfRangeError.Has(err):
		return KindOutOfRange
	case errors.As(err, &numErr):
		if errors.Is(numErr.Err, strconv.ErrRange) {
			return KindNumberRange
		}
		return KindNumberFormat
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return KindDeadline
	}
	return KindError
}

// ClassifyPanic maps a recovered panic value to its Kind and an error
// describing it.
func ClassifyPanic(v any) (Kind, error) {
	err, isErr := v.(error)
	if !isErr {
		return KindPanic, fmt.Errorf("panic: %v", v)
	}
	if InvariantError.Has(err) {
		return KindInvariant, err
	}

	var nilErr *runtime.PanicNilError
	if errors.As(err, &nilErr) {
		return KindPanic, fmt.Errorf("panic: %w", err)
	}

	var rtErr runtime.Error
	if !errors.As(err, &rtErr) {
		return KindPanic, fmt.Errorf("panic: %w", err)
	}

	var taErr *runtime.TypeAssertionError
	msg := rtErr.Error()
	switch {
	case errors.As(err, &taErr):
		return KindTypeAssertion, err
	case strings.Contains(msg, "index out of range"), strings.Contains(msg, "slice bounds out of range"):
		return KindOutOfRange, err
	case strings.Contains(msg, "nil pointer dereference"), strings.Contains(msg, "nil map"):
		return KindNilDereference, err
	case strings.Contains(msg, "divide by zero"):
		return KindDivideByZero, err
	}
	return KindRuntime, err
}
