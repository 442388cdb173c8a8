package ize

import (
	"go.uber.org/zap"

	"github.com/ib-77/ropize/pkg/rop"
)

// Config controls how faults are captured. The zero value captures every
// kind in rop.DefaultKinds, records a trace and logs nowhere.
type Config struct {
	// Kinds is the allow-list. nil means rop.DefaultKinds(); an empty,
	// non-nil set captures nothing.
	Kinds rop.Kinds
	// OmitTrace disables diagnostic trace capture.
	OmitTrace bool
	// Name identifies the operation in faults and traces. Derived from the
	// wrapped function when empty.
	Name string
	// Logger receives a debug entry per captured fault.
	Logger *zap.Logger
}

// Only returns a copy of c restricted to kinds.
func (c Config) Only(kinds ...rop.Kind) Config {
	c.Kinds = rop.NewKinds(kinds...)
	return c
}

func (c Config) kinds() rop.Kinds {
	if c.Kinds == nil {
		return rop.DefaultKinds()
	}
	return c.Kinds
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c Config) named(fn any) Config {
	if c.Name == "" {
		c.Name = rop.FuncName(fn)
	}
	return c
}
