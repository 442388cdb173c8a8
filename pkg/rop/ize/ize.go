package ize

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/ib-77/ropize/pkg/rop"
)

// Run calls fn and converts its outcome. A nil error yields a success. An
// error or panic whose kind is allowed by cfg yields a failure carrying a
// rop.Fault. Errors of other kinds are returned as is with a zero Outcome,
// and panics of other kinds are re-raised with the original value.
func Run[Out any](cfg Config, fn func() (Out, error)) (res rop.Outcome[Out], err error) {
	kinds := cfg.kinds()

	defer func() {
		v := recover()
		if v == nil {
			return
		}
		kind, cause := rop.ClassifyPanic(v)
		if !kinds.Has(kind) {
			panic(v)
		}
		res, err = rop.Failure[Out](capture(cfg, kind, cause)), nil
	}()

	out, callErr := fn()
	if callErr == nil {
		return rop.Success[Out, rop.Fault](out), nil
	}

	kind := rop.ClassifyError(callErr)
	if !kinds.Has(kind) {
		return res, callErr
	}
	return rop.Failure[Out](capture(cfg, kind, callErr)), nil
}

func capture(cfg Config, kind rop.Kind, cause error) rop.Fault {
	f := rop.NewFault(kind, cause).WithOp(cfg.Name)
	if !cfg.OmitTrace {
		f = f.WithTrace(fmt.Sprintf("%s: %v\n\n%s", cfg.Name, cause, debug.Stack()))
	}

	cfg.logger().Debug("fault captured",
		zap.String("op", cfg.Name),
		zap.String("kind", string(kind)),
		zap.Error(cause),
		zap.Bool("trace", !cfg.OmitTrace))
	return f
}

func Wrap0[Out any](fn func() (Out, error)) func() (rop.Outcome[Out], error) {
	return Wrap0With(Config{}, fn)
}

func Wrap0With[Out any](cfg Config, fn func() (Out, error)) func() (rop.Outcome[Out], error) {
	cfg = cfg.named(fn)
	return func() (rop.Outcome[Out], error) {
		return Run(cfg, fn)
	}
}

// Wrap adapts fn with the default Config.
func Wrap[In, Out any](fn func(In) (Out, error)) func(In) (rop.Outcome[Out], error) {
	return WrapWith(Config{}, fn)
}

func WrapWith[In, Out any](cfg Config, fn func(In) (Out, error)) func(In) (rop.Outcome[Out], error) {
	cfg = cfg.named(fn)
	return func(in In) (rop.Outcome[Out], error) {
		return Run(cfg, func() (Out, error) {
			return fn(in)
		})
	}
}

func Wrap2[A, B, Out any](fn func(A, B) (Out, error)) func(A, B) (rop.Outcome[Out], error) {
	return Wrap2With(Config{}, fn)
}

func Wrap2With[A, B, Out any](cfg Config, fn func(A, B) (Out, error)) func(A, B) (rop.Outcome[Out], error) {
	cfg = cfg.named(fn)
	return func(a A, b B) (rop.Outcome[Out], error) {
		return Run(cfg, func() (Out, error) {
			return fn(a, b)
		})
	}
}

// Lift gives a function that can only fail by panicking the (Out, error)
// shape expected by Wrap. Set Config.Name when wrapping the result, the
// derived name would be the one of the closure.
func Lift[In, Out any](fn func(In) Out) func(In) (Out, error) {
	return func(in In) (Out, error) {
		return fn(in), nil
	}
}
