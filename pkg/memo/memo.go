package memo

import (
	"github.com/patrickmn/go-cache"
	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/ib-77/ropize/pkg/rop"
)

// Error is the class of all errors returned by this package.
var Error = errs.Class("memo")

// Cache stores return values without eviction. The underlying store is safe
// for concurrent use, but two concurrent misses on the same key both compute.
type Cache struct {
	store *cache.Cache
	log   *zap.Logger
}

func New(options ...Option) (*Cache, error) {
	c := &Cache{
		log: zap.NewNop(),
	}
	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}
	// a non-positive cleanup interval starts no janitor goroutine
	c.store = cache.New(cache.NoExpiration, 0)
	return c, nil
}

func storageKey(op string, args any) (string, error) {
	k, err := encodeKey(args)
	if err != nil {
		return "", Error.New("cannot serialize arguments of %s: %w", op, err)
	}
	return op + "\x00" + k, nil
}

func (c *Cache) lookup(key string) (any, bool) {
	v, found := c.store.Get(key)
	if found {
		c.log.Debug("memo hit", zap.String("key", key))
	} else {
		c.log.Debug("memo miss", zap.String("key", key))
	}
	return v, found
}

func (c *Cache) keep(key string, v any) {
	c.store.Set(key, v, cache.NoExpiration)
}

// RetrieveOrCompute returns the value stored for op called with args, or
// calls compute, stores and returns its value. It fails only when args
// cannot be serialized.
func (c *Cache) RetrieveOrCompute(op string, args any, compute func() any) (any, error) {
	key, err := storageKey(op, args)
	if err != nil {
		return nil, err
	}
	if v, found := c.lookup(key); found {
		return v, nil
	}
	v := compute()
	c.keep(key, v)
	return v, nil
}

// Len returns the number of stored values.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// Keep returns a memoized version of fn identified by its function name.
// Calls whose argument cannot be serialized are passed through uncached.
func Keep[In, Out any](c *Cache, fn func(In) Out) func(In) Out {
	return KeepAs(c, rop.FuncName(fn), fn)
}

// KeepAs is Keep with an explicit identity, for closures created from the
// same literal that must not share entries.
func KeepAs[In, Out any](c *Cache, name string, fn func(In) Out) func(In) Out {
	return func(in In) Out {
		v, err := c.RetrieveOrCompute(name, in, func() any { return fn(in) })
		if err != nil {
			c.log.Warn("memo bypassed", zap.String("op", name), zap.Error(err))
			return fn(in)
		}
		out, _ := v.(Out)
		return out
	}
}

// KeepErr memoizes a fallible fn. Only successful calls are stored, a
// returned error reaches the caller and the next call computes again.
func KeepErr[In, Out any](c *Cache, fn func(In) (Out, error)) func(In) (Out, error) {
	name := rop.FuncName(fn)
	return func(in In) (Out, error) {
		key, err := storageKey(name, in)
		if err != nil {
			c.log.Warn("memo bypassed", zap.String("op", name), zap.Error(err))
			return fn(in)
		}
		if v, found := c.lookup(key); found {
			out, _ := v.(Out)
			return out, nil
		}
		out, err := fn(in)
		if err != nil {
			return out, err
		}
		c.keep(key, out)
		return out, nil
	}
}
