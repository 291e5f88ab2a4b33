package provider

import (
	"reflect"
	"sort"

	"github.com/modelgate/modelgate/pkg/api"
)

// ValidateParams checks a translated native parameter map against the call
// function's declared contract. It returns a *Violation when a required
// parameter is missing, an undeclared parameter is present (and the spec has
// no variadic sink), or a value's runtime type is not assignable to the
// declared type.
func ValidateParams(native map[string]any, fn CallFunc) error {
	spec := Inspect(fn)

	// Required parameters first, in sorted order so the first failure is
	// deterministic.
	for _, name := range spec.Names() {
		if !spec[name].Required {
			continue
		}
		if _, ok := native[name]; !ok {
			return NewMissingRequiredParam(name)
		}
	}

	variadic := spec.HasVariadic()
	for _, name := range sortedKeys(native) {
		p, declared := spec[name]
		if !declared {
			if variadic {
				continue
			}
			return NewUnexpectedParam(name)
		}
		if p.Type == nil {
			continue
		}
		value := native[name]
		if value == nil {
			if !nilable(p.Type) {
				return NewTypeMismatch(name, p.Type.String(), "nil")
			}
			continue
		}
		actual := reflect.TypeOf(value)
		if !actual.AssignableTo(p.Type) {
			return NewTypeMismatch(name, p.Type.String(), actual.String())
		}
	}
	return nil
}

// ValidateProvenance checks that every output message carrying text is
// stamped with the given origin ID. A no-op when originID is empty:
// provenance tracking is opt-in. Messages without text blocks (for example
// tool-call-only responses) have no projection to trace and are skipped.
func ValidateProvenance(messages []api.Message, originID string) error {
	if originID == "" {
		return nil
	}
	for i, m := range messages {
		if !m.HasText() {
			continue
		}
		if text := m.Text(); text.Origin != originID {
			return NewUntrackedMessage(i, originID, text.Origin)
		}
	}
	return nil
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
