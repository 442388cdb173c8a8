package tiny

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ib-77/ropize/pkg/rop"
	"github.com/ib-77/ropize/pkg/rop/fmap"
	"github.com/ib-77/ropize/pkg/rop/ize"
)

type Chain struct {
	ctx context.Context
	res rop.Outcome[any]
	// err holds a fault outside a step's allow-list; once set the chain is
	// halted and res is unset.
	err error
}

func Start(ctx context.Context, r rop.Outcome[any]) Chain {
	return Chain{ctx: ctx, res: r}
}

func FromValue(ctx context.Context, v any) Chain {
	return Start(ctx, rop.Success[any, rop.Fault](v))
}

// Result returns the current outcome, or the error of a fault that no step
// was allowed to capture.
func (c Chain) Result() (rop.Outcome[any], error) {
	return c.res, c.err
}

func (c Chain) halted() bool {
	return c.err != nil || c.res.IsFailure()
}

func (c Chain) step(op string, next func(in rop.Outcome[any]) (rop.Outcome[any], error)) Chain {
	if c.halted() {
		return c
	}

	if err := c.ctx.Err(); rop.IsCancellationError(err) {
		f := rop.NewFault(rop.ClassifyError(err), err).WithOp(op)
		return Chain{ctx: c.ctx, res: rop.Failure[any](f)}
	}

	res, err := next(c.res)
	return Chain{ctx: c.ctx, res: res, err: err}
}

// Then applies fn to the payload, capturing faults of the given kinds
// (rop.DefaultKinds when none are given).
func (c Chain) Then(fn func(ctx context.Context, v any) (any, error), kinds ...rop.Kind) Chain {
	cfg := ize.Config{Name: rop.FuncName(fn)}
	if len(kinds) > 0 {
		cfg = cfg.Only(kinds...)
	}
	return c.step(cfg.Name, func(in rop.Outcome[any]) (rop.Outcome[any], error) {
		return fmap.TransformExceptWith(cfg, in, func(v any) (any, error) {
			return fn(c.ctx, v)
		})
	})
}

// Map transforms the payload with a function that can only fail by
// panicking.
func (c Chain) Map(fn func(ctx context.Context, v any) any) Chain {
	cfg := ize.Config{Name: rop.FuncName(fn)}
	return c.step(cfg.Name, func(in rop.Outcome[any]) (rop.Outcome[any], error) {
		return fmap.TransformExceptWith(cfg, in, func(v any) (any, error) {
			return fn(c.ctx, v), nil
		})
	})
}

// Index steps into a slice, array, string or map payload.
func (c Chain) Index(key any) Chain {
	return c.step(fmt.Sprintf("index[%v]", key), func(in rop.Outcome[any]) (rop.Outcome[any], error) {
		return fmap.IndexAny(in, key)
	})
}

// ParseInt parses a string payload. A payload that is not a string is an
// error outside the allow-list and halts the chain.
func (c Chain) ParseInt() Chain {
	cfg := ize.Config{Name: "strconv.Atoi"}.Only(rop.KindNumberFormat)
	return c.step(cfg.Name, func(in rop.Outcome[any]) (rop.Outcome[any], error) {
		return fmap.TransformExceptWith(cfg, in, func(v any) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("cannot parse %T as int", v)
			}
			return strconv.Atoi(s)
		})
	})
}

// Or returns the first successful chain among c and alternative. When
// neither succeeded c is returned.
func (c Chain) Or(alternative Chain) Chain {
	if c.err == nil && c.res.IsSuccess() {
		return c
	}
	if alternative.err == nil && alternative.res.IsSuccess() {
		return alternative
	}
	return c
}

// Ensure triggers side effects without changing the chain. A halted chain
// with a propagated error triggers neither callback.
func (c Chain) Ensure(onSuccess func(context.Context, any), onFailure func(context.Context, rop.Fault)) Chain {
	if c.err != nil {
		return c
	}

	if f, ok := c.res.Err(); ok {
		if onFailure != nil {
			onFailure(c.ctx, f)
		}
		return c
	}

	if onSuccess != nil {
		v, _ := c.res.Value()
		onSuccess(c.ctx, v)
	}
	return c
}

// Finally collapses the chain to a value.
func (c Chain) Finally(
	onSuccess func(context.Context, any) any,
	onFailure func(context.Context, rop.Fault) any,
) (any, error) {
	if c.err != nil {
		return nil, c.err
	}
	return rop.Fold(c.res,
		func(v any) any { return onSuccess(c.ctx, v) },
		func(f rop.Fault) any { return onFailure(c.ctx, f) }), nil
}
