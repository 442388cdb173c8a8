package rop

import "fmt"

// Fault records an intercepted fault: its kind, the operation it came from
// and, when trace capture was enabled, a diagnostic trace.
type Fault struct {
	kind     Kind
	op       string
	cause    error
	trace    string
	hasTrace bool
}

func NewFault(kind Kind, cause error) Fault {
	return Fault{kind: kind, cause: cause}
}

// WithOp returns a copy of f naming the operation that faulted.
func (f Fault) WithOp(op string) Fault {
	f.op = op
	return f
}

// WithTrace returns a copy of f carrying trace. An empty trace leaves the
// trace absent.
func (f Fault) WithTrace(trace string) Fault {
	f.trace = trace
	f.hasTrace = trace != ""
	return f
}

func (f Fault) Kind() Kind {
	return f.kind
}

func (f Fault) Op() string {
	return f.op
}

func (f Fault) Cause() error {
	return f.cause
}

func (f Fault) Trace() (string, bool) {
	return f.trace, f.hasTrace
}

func (f Fault) Error() string {
	if f.cause == nil {
		return string(f.kind)
	}
	return fmt.Sprintf("%s: %v", f.kind, f.cause)
}

func (f Fault) Unwrap() error {
	return f.cause
}

// Is matches a Kind target, so errors.Is(err, KindMissingKey) works on
// wrapped faults.
func (f Fault) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == f.kind
}

func (f Fault) String() string {
	return "Fault(" + string(f.kind) + ")"
}

// Equal compares kind, operation and cause message. Traces are ignored, they
// differ from one capture to the next.
func (f Fault) Equal(other Fault) bool {
	if f.kind != other.kind || f.op != other.op {
		return false
	}
	if f.cause == nil || other.cause == nil {
		return f.cause == nil && other.cause == nil
	}
	return f.cause.Error() == other.cause.Error()
}
