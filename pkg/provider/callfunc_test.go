package provider

import (
	"context"
	"reflect"
	"testing"
)

// countingCallFunc counts how often its spec is walked, so tests can observe
// inspection memoization.
type countingCallFunc struct {
	spec      ParamSpec
	specCalls int
}

func (f *countingCallFunc) Spec() ParamSpec {
	f.specCalls++
	return f.spec
}

func (f *countingCallFunc) Invoke(ctx context.Context, params map[string]any) (any, error) {
	return nil, nil
}

func TestInspect_Memoized(t *testing.T) {
	fn := &countingCallFunc{spec: ParamSpec{
		"a": {Required: true, Type: reflect.TypeOf(0)},
		"b": {Type: reflect.TypeOf("")},
	}}

	first := Inspect(fn)
	for i := 0; i < 5; i++ {
		got := Inspect(fn)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("Inspect returned different spec on call %d: %v != %v", i+2, got, first)
		}
	}

	if fn.specCalls != 1 {
		t.Errorf("spec walked %d times, want 1", fn.specCalls)
	}
}

func TestInspect_DistinctIdentities(t *testing.T) {
	a := &countingCallFunc{spec: ParamSpec{"a": {Required: true}}}
	b := &countingCallFunc{spec: ParamSpec{"b": {Required: true}}}

	specA := Inspect(a)
	specB := Inspect(b)

	if _, ok := specA["a"]; !ok {
		t.Error("spec for a lost its parameter")
	}
	if _, ok := specB["b"]; !ok {
		t.Error("spec for b lost its parameter")
	}
	if a.specCalls != 1 || b.specCalls != 1 {
		t.Errorf("spec walks: a=%d b=%d, want 1 each", a.specCalls, b.specCalls)
	}
}

func TestParamSpec_Names(t *testing.T) {
	spec := ParamSpec{
		"zeta":   {},
		"alpha":  {Required: true},
		"kwargs": {Variadic: true},
	}

	got := spec.Names()
	want := []string{"alpha", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestParamSpec_HasVariadic(t *testing.T) {
	if (ParamSpec{"a": {}}).HasVariadic() {
		t.Error("spec without sink reported variadic")
	}
	if !(ParamSpec{"a": {}, "rest": {Variadic: true}}).HasVariadic() {
		t.Error("spec with sink not reported variadic")
	}
}

func TestNewFunc(t *testing.T) {
	spec := ParamSpec{"a": {Required: true}}
	invoked := 0
	fn := NewFunc(spec, func(ctx context.Context, params map[string]any) (any, error) {
		invoked++
		return params["a"], nil
	})

	if !reflect.DeepEqual(fn.Spec(), spec) {
		t.Errorf("Spec() = %v, want %v", fn.Spec(), spec)
	}

	out, err := fn.Invoke(context.Background(), map[string]any{"a": 42})
	if err != nil {
		t.Fatalf("Invoke failed: %v", err)
	}
	if out != 42 {
		t.Errorf("Invoke returned %v, want 42", out)
	}
	if invoked != 1 {
		t.Errorf("wrapped function invoked %d times, want 1", invoked)
	}
}
