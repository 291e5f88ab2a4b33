package provider

import (
	"context"
	"reflect"
	"sort"
	"sync"
)

// Param describes one parameter accepted by a backend call function.
type Param struct {
	// Required marks a parameter that must be present in the native
	// parameter map. A variadic sink is never required.
	Required bool

	// Type is the declared value type, or nil when the parameter accepts
	// any value. Compatibility is Go assignability.
	Type reflect.Type

	// Variadic marks a catch-all sink that absorbs arbitrary extra
	// parameters by name.
	Variadic bool
}

// ParamSpec is the declared parameter contract of a backend call function:
// a mapping from parameter name to its constraints.
type ParamSpec map[string]Param

// HasVariadic reports whether the spec declares a catch-all parameter sink.
func (s ParamSpec) HasVariadic() bool {
	for _, p := range s {
		if p.Variadic {
			return true
		}
	}
	return false
}

// Names returns all declared parameter names in sorted order, excluding
// variadic sinks.
func (s ParamSpec) Names() []string {
	names := make([]string, 0, len(s))
	for name, p := range s {
		if p.Variadic {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CallFunc is the function that actually performs a backend call. It pairs
// the invocation with a declared parameter contract, which is what a
// statically typed adapter exposes in place of a runtime-inspectable
// signature.
//
// Implementations must be comparable values (typically pointers): Inspect
// memoizes specs per CallFunc identity. A non-comparable implementation is a
// configuration error and panics on first inspection.
type CallFunc interface {
	// Spec returns the declared parameter contract. The result must be
	// stable for the lifetime of the CallFunc.
	Spec() ParamSpec

	// Invoke performs the backend call with the given native parameters.
	// This is the only step that may block on network I/O; cancellation
	// and timeouts follow the context and the backend's own policy.
	Invoke(ctx context.Context, params map[string]any) (any, error)
}

// specCache memoizes ParamSpec values per CallFunc identity for the process
// lifetime. The set of distinct call functions is small and fixed, so the
// cache is unbounded. A race computing the same spec twice is harmless.
var specCache sync.Map

// Inspect returns the parameter contract of fn, memoized per callable
// identity: repeated calls with the same CallFunc return the cached spec
// without consulting Spec again.
func Inspect(fn CallFunc) ParamSpec {
	if cached, ok := specCache.Load(fn); ok {
		return cached.(ParamSpec)
	}
	spec := fn.Spec()
	if prev, loaded := specCache.LoadOrStore(fn, spec); loaded {
		return prev.(ParamSpec)
	}
	return spec
}

// Func adapts a plain function and a declared spec into a CallFunc.
type Func struct {
	spec ParamSpec
	fn   func(ctx context.Context, params map[string]any) (any, error)
}

// NewFunc returns a CallFunc backed by fn with the given declared spec.
func NewFunc(spec ParamSpec, fn func(ctx context.Context, params map[string]any) (any, error)) *Func {
	return &Func{spec: spec, fn: fn}
}

// Spec returns the declared parameter contract.
func (f *Func) Spec() ParamSpec {
	return f.spec
}

// Invoke calls the wrapped function.
func (f *Func) Invoke(ctx context.Context, params map[string]any) (any, error) {
	return f.fn(ctx, params)
}
