package memo

import "go.uber.org/zap"

// Option configures a Cache.
type Option func(*Cache) error

// WithLogger sets the logger receiving hit and miss debug entries.
func WithLogger(log *zap.Logger) Option {
	return func(c *Cache) error {
		if log == nil {
			return Error.New("logger cannot be nil")
		}
		c.log = log
		return nil
	}
}
