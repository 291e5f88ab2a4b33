// Package provider defines the uniform contract for invoking heterogeneous
// language-model backends through one call pipeline.
//
// A backend adapter implements the Provider interface: it exposes the
// backend's call function, translates a normalized CallParams into the
// backend's native parameter map, and translates the raw backend response
// back into normalized messages. The package-level Call function orchestrates
// one invocation and validates both translation steps against the call
// function's declared parameter contract, so a broken adapter fails loudly at
// the call site instead of producing a confusing downstream backend error.
//
// Contract violations are returned as *Violation values with programmatic
// kinds; backend transport failures propagate unchanged from the call
// function's Invoke.
package provider
