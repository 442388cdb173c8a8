package measure

import (
	"math"
	"sync"
	"time"

	"golang.org/x/exp/constraints"
)

// Timer tracks the time spent since it was created or last yanked. It is
// safe for concurrent use.
type Timer struct {
	mu    sync.Mutex
	now   func() time.Time
	stamp time.Time
}

func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	return &Timer{now: now, stamp: now()}
}

// Yank returns the time passed since the previous Yank, or since NewTimer
// for the first call, and restarts the timer.
func (t *Timer) Yank() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	last := t.stamp
	t.stamp = t.now()
	return t.stamp.Sub(last)
}

type Number interface {
	constraints.Integer | constraints.Float
}

// Percent returns 100*value/total. Zero of zero is 100 percent and any other
// value of zero is +Inf, whatever its sign.
func Percent[N Number](value, total N) float64 {
	if total != 0 {
		return 100 * float64(value) / float64(total)
	}
	if value == 0 {
		return 100
	}
	return math.Inf(1)
}
