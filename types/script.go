package types

// ScriptFn is the invocable form of a host callable. Arguments and the
// return value are opaque to the engine; their meaning is fixed by the
// declaration convention (hooks return a truthiness value, tests return
// a Check).
type ScriptFn func(args ...any) any

// ScriptRef is an opaque, enumerable handle to a named callable provided
// by the host environment.
type ScriptRef struct {
	Name string
	Fn   ScriptFn
}

// Invoke calls the referenced script synchronously on the caller's
// goroutine. Panics raised by the script are not recovered here.
func (r ScriptRef) Invoke(args ...any) any {
	return r.Fn(args...)
}

// Valid reports whether the reference points at an invocable script.
func (r ScriptRef) Valid() bool {
	return r.Fn != nil
}

// Enumerator yields the host's scripts as a finite ordered sequence.
// The order must be deterministic and stable across calls within one
// engine run; it determines discovery and execution order.
type Enumerator interface {
	Enumerate() []ScriptRef
}
