package provider

import "fmt"

// ViolationKind classifies a contract violation.
type ViolationKind string

const (
	KindMissingRequiredParam ViolationKind = "missing_required_param"
	KindUnexpectedParam      ViolationKind = "unexpected_param"
	KindTypeMismatch         ViolationKind = "type_mismatch"
	KindDisallowedParam      ViolationKind = "disallowed_param"
	KindUntrackedMessage     ViolationKind = "untracked_message"
)

// Violation indicates that a backend adapter's implementation breaks the
// provider contract: wrong or missing native parameters, a caller override
// of a derived parameter, or output messages that lost their provenance tag.
//
// Violations are programming errors in the adapter, not user or transport
// conditions. They abort the call immediately and are never retried. Backend
// transport failures are a separate class and pass through Call unchanged.
type Violation struct {
	Kind     ViolationKind
	Param    string
	Expected string
	Actual   string
	Message  string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	if v.Param != "" {
		return fmt.Sprintf("provider contract violation (%s): %s (param: %s)", v.Kind, v.Message, v.Param)
	}
	return fmt.Sprintf("provider contract violation (%s): %s", v.Kind, v.Message)
}

// NewMissingRequiredParam reports a required native parameter absent from
// the translated parameter map.
func NewMissingRequiredParam(name string) *Violation {
	return &Violation{
		Kind:    KindMissingRequiredParam,
		Param:   name,
		Message: fmt.Sprintf("required parameter %q is missing from the translated call parameters", name),
	}
}

// NewUnexpectedParam reports a translated parameter the call function does
// not declare.
func NewUnexpectedParam(name string) *Violation {
	return &Violation{
		Kind:    KindUnexpectedParam,
		Param:   name,
		Message: fmt.Sprintf("unexpected parameter %q in the translated call parameters", name),
	}
}

// NewTypeMismatch reports a translated parameter whose value type is not
// compatible with the declared type.
func NewTypeMismatch(name, expected, actual string) *Violation {
	return &Violation{
		Kind:     KindTypeMismatch,
		Param:    name,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("parameter %q should be of type %s, got %s", name, expected, actual),
	}
}

// NewDisallowedParam reports a caller-supplied extra parameter that the
// adapter layer always derives itself.
func NewDisallowedParam(name string) *Violation {
	return &Violation{
		Kind:    KindDisallowedParam,
		Param:   name,
		Message: fmt.Sprintf("extra parameter %q is derived by the provider and may not be overridden", name),
	}
}

// NewUntrackedMessage reports an output message whose text projection does
// not carry the origin tag of the call that produced it.
func NewUntrackedMessage(index int, expected, actual string) *Violation {
	return &Violation{
		Kind:     KindUntrackedMessage,
		Expected: expected,
		Actual:   actual,
		Message:  fmt.Sprintf("message %d is not tracked: origin %q does not match call origin %q", index, actual, expected),
	}
}
