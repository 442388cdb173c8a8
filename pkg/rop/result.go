package rop

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Result is an exclusive pair: it carries either a success payload of type T
// or a failure payload of type E, never both and never neither.
type Result[T, E any] struct {
	id        uuid.UUID
	createdAt time.Time
	result    T
	err       E
	isSuccess bool
	built     bool
}

// Outcome is the result shape produced by the fault capturing adapters:
// the failure payload is always a captured Fault.
type Outcome[T any] = Result[T, Fault]

func Success[T, E any](r T) Result[T, E] {
	return Result[T, E]{
		result:    r,
		isSuccess: true,
		built:     true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Failure builds a failure-discriminated result. A nil payload would leave
// the result without either side, so it panics with an InvariantError.
func Failure[T, E any](err E) Result[T, E] {
	if IsNil(err) {
		panic(InvariantError.New("failure payload must not be nil"))
	}
	return Result[T, E]{
		err:       err,
		isSuccess: false,
		built:     true,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

// Of converts a conventional (value, error) pair into a Result.
func Of[T any](v T, err error) Result[T, error] {
	if err != nil {
		return Failure[T](err)
	}
	return Success[T, error](v)
}

// FailFrom re-types a failure so it can short-circuit into a step with a
// different success type. The payload, id and creation time are kept.
func FailFrom[Out, In, E any](from Result[In, E]) Result[Out, E] {
	from.mustBeBuilt()
	if from.isSuccess {
		panic(InvariantError.New("FailFrom called on a success result"))
	}
	return Result[Out, E]{
		err:       from.err,
		isSuccess: false,
		built:     true,
		createdAt: from.createdAt,
		id:        from.id,
	}
}

func (r Result[T, E]) mustBeBuilt() {
	if !r.built {
		panic(InvariantError.New("result holds neither a value nor an error; use Success or Failure"))
	}
}

// Value returns the success payload and true, or the zero value and false
// when the result is a failure.
func (r Result[T, E]) Value() (T, bool) {
	r.mustBeBuilt()
	if !r.isSuccess {
		var zero T
		return zero, false
	}
	return r.result, true
}

// Err returns the failure payload and true, or the zero value and false
// when the result is a success.
func (r Result[T, E]) Err() (E, bool) {
	r.mustBeBuilt()
	if r.isSuccess {
		var zero E
		return zero, false
	}
	return r.err, true
}

func (r Result[T, E]) IsSuccess() bool {
	r.mustBeBuilt()
	return r.isSuccess
}

func (r Result[T, E]) IsFailure() bool {
	return !r.IsSuccess()
}

func (r Result[T, E]) CreatedAt() time.Time {
	return r.createdAt
}

func (r Result[T, E]) Id() uuid.UUID {
	return r.id
}

// String renders the result as Success(<payload>) or Failure(<payload>),
// see Repr for the payload format.
func (r Result[T, E]) String() string {
	if !r.built {
		return "Result(<unset>)"
	}
	if r.isSuccess {
		return "Success(" + Repr(r.result) + ")"
	}
	return "Failure(" + Repr(r.err) + ")"
}

// Equal reports whether both results have the same discriminator and equal
// payloads. Identity (Id, CreatedAt) is not compared.
func (r Result[T, E]) Equal(other Result[T, E]) bool {
	r.mustBeBuilt()
	other.mustBeBuilt()
	if r.isSuccess != other.isSuccess {
		return false
	}
	if r.isSuccess {
		return payloadEqual(r.result, other.result)
	}
	return payloadEqual(r.err, other.err)
}

func payloadEqual[P any](a, b P) bool {
	if eq, ok := any(a).(interface{ Equal(P) bool }); ok {
		return eq.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// Fold collapses a result into a single value.
func Fold[T, E, Out any](r Result[T, E],
	onSuccess func(v T) Out,
	onFailure func(e E) Out) Out {

	if v, ok := r.Value(); ok {
		return onSuccess(v)
	}
	e, _ := r.Err()
	return onFailure(e)
}
