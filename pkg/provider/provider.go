package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelgate/modelgate/pkg/api"
	"github.com/modelgate/modelgate/pkg/debug"
)

// CallParams is the normalized, backend-agnostic description of one model
// invocation. It is immutable for the duration of a call.
type CallParams struct {
	// Model is the backend model identifier.
	Model string

	// Messages is the conversation in order. Order must be preserved
	// through translation.
	Messages []api.Message

	// Client is an opaque backend handle for adapters that invoke the
	// backend through a caller-owned connection or SDK client. Ownership
	// remains with the caller; the provider only borrows it for the
	// duration of the call. Adapters that manage their own transport,
	// like openaicompat, ignore it.
	Client any

	// Tools lists tool definitions available to the model, in order.
	Tools []api.ToolDefinition

	// Extra holds backend-specific parameter overrides layered on top of
	// what the provider derives from the other fields. Keys must not
	// collide with the provider's disallowed set.
	Extra map[string]any
}

// Provider is the adapter contract between the normalized call description
// and one specific backend. Implementations must be safe for concurrent use:
// Call holds no mutable per-call state.
type Provider interface {
	// Name returns the adapter identifier (e.g. "openaicompat"), used for
	// logging and metric labels.
	Name() string

	// CallFunction returns the function that performs the backend call.
	// The hint is the translated native parameter map and may influence
	// which variant is returned (e.g. streaming vs non-streaming).
	CallFunction(hint map[string]any) CallFunc

	// DisallowedParams returns the parameter names the adapter layer
	// always derives itself and rejects in caller-supplied extras.
	DisallowedParams() map[string]struct{}

	// TranslateToBackend assembles the complete native parameter map from
	// the call description. No extra key may be silently dropped.
	TranslateToBackend(call *CallParams) (map[string]any, error)

	// TranslateFromBackend reconstructs normalized messages and metadata
	// from the raw backend response, preserving order and role. When
	// originID is non-empty, every produced message's text must be
	// stamped with it.
	TranslateFromBackend(ctx context.Context, raw any, call *CallParams, originID string, logger *slog.Logger) ([]api.Message, api.Metadata, error)
}

// DefaultDisallowedParams returns the standard disallowed set: model,
// messages, and tools are always derived canonically from the call
// description, so caller overrides would silently desynchronize the
// advertised conversation from the actual backend request.
func DefaultDisallowedParams() map[string]struct{} {
	return map[string]struct{}{
		"model":    {},
		"messages": {},
		"tools":    {},
	}
}

// AvailableParams returns the parameter names callers may legally override
// via CallParams.Extra: the call function's declared parameters minus the
// provider's disallowed set. Purely introspective self-documentation; not
// enforced at call time beyond the disallowed-set check.
func AvailableParams(p Provider, hint map[string]any) []string {
	spec := Inspect(p.CallFunction(hint))
	disallowed := p.DisallowedParams()

	var names []string
	for _, name := range spec.Names() {
		if _, hidden := disallowed[name]; hidden {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Result is the outcome of one orchestrated call.
type Result struct {
	// Messages are the normalized output messages, in backend order.
	Messages []api.Message

	// NativeParams is the translated parameter map that was sent to the
	// backend, returned for observability.
	NativeParams map[string]any

	// Metadata carries backend-defined auxiliary response fields.
	Metadata api.Metadata
}

// Observer receives call outcomes and contract violations, typically for
// metrics. Implementations must be safe for concurrent use.
type Observer interface {
	ObserveCall(provider, model string, d time.Duration, err error)
	ObserveViolation(provider string, kind ViolationKind)
	ObserveUsage(provider, model string, usage api.Usage)
}

// CallOption configures one orchestrated call.
type CallOption func(*callOptions)

type callOptions struct {
	originID string
	logger   *slog.Logger
	observer Observer
}

// WithOriginID enables provenance tracking: every output message's text must
// be stamped with the given ID, checked after translation.
func WithOriginID(id string) CallOption {
	return func(o *callOptions) { o.originID = id }
}

// WithLogger sets the diagnostic logger passed to TranslateFromBackend.
func WithLogger(logger *slog.Logger) CallOption {
	return func(o *callOptions) { o.logger = logger }
}

// WithObserver attaches an observer for call outcomes and violations.
func WithObserver(obs Observer) CallOption {
	return func(o *callOptions) { o.observer = obs }
}

// Call orchestrates one model invocation through the given provider:
//
//  1. Reject extra parameters in the provider's disallowed set.
//  2. Translate the call description to native parameters.
//  3. Obtain the backend call function for those parameters.
//  4. Validate the native parameters against its declared contract.
//  5. Invoke the backend (the only blocking step).
//  6. Translate the raw response to normalized messages and metadata.
//  7. Validate provenance tagging when an origin ID was supplied.
//
// Failures in steps 1, 4, and 7 are returned as *Violation and indicate a
// bug in the adapter or the caller's extras, not a runtime condition.
// Backend errors from step 5 propagate unchanged.
func Call(ctx context.Context, p Provider, call *CallParams, opts ...CallOption) (*Result, error) {
	var o callOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	fail := func(v *Violation) error {
		if o.observer != nil {
			o.observer.ObserveViolation(p.Name(), v.Kind)
		}
		return v
	}

	// Per-key check: any extra key in the disallowed set is rejected
	// before the backend is touched.
	disallowed := p.DisallowedParams()
	for _, name := range sortedKeys(call.Extra) {
		if _, bad := disallowed[name]; bad {
			return nil, fail(NewDisallowedParam(name))
		}
	}

	native, err := p.TranslateToBackend(call)
	if err != nil {
		return nil, fmt.Errorf("translating call for %s: %w", p.Name(), err)
	}

	fn := p.CallFunction(native)
	if err := ValidateParams(native, fn); err != nil {
		v := err.(*Violation)
		return nil, fail(v)
	}

	debug.Log("contract", "invoking backend",
		"provider", p.Name(), "model", call.Model, "params", len(native))

	start := time.Now()
	raw, err := fn.Invoke(ctx, native)
	if o.observer != nil {
		o.observer.ObserveCall(p.Name(), call.Model, time.Since(start), err)
	}
	if err != nil {
		// Transport failure: pass through unchanged, the caller owns
		// retry policy.
		return nil, err
	}

	messages, metadata, err := p.TranslateFromBackend(ctx, raw, call, o.originID, o.logger)
	if err != nil {
		return nil, fmt.Errorf("translating response from %s: %w", p.Name(), err)
	}

	if err := ValidateProvenance(messages, o.originID); err != nil {
		v := err.(*Violation)
		return nil, fail(v)
	}

	if o.observer != nil {
		if usage, ok := metadata["usage"].(api.Usage); ok {
			o.observer.ObserveUsage(p.Name(), call.Model, usage)
		}
	}

	return &Result{Messages: messages, NativeParams: native, Metadata: metadata}, nil
}
