package provider

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/modelgate/modelgate/pkg/api"
)

// stubCallFunc requires model and prompt, accepts an optional temperature,
// and records invocations so tests can assert the backend was (not) reached.
type stubCallFunc struct {
	mu          sync.Mutex
	invocations int
	lastParams  map[string]any
	response    any
	err         error
}

func (f *stubCallFunc) Spec() ParamSpec {
	return ParamSpec{
		"model":       {Required: true, Type: reflect.TypeOf("")},
		"prompt":      {Required: true, Type: reflect.TypeOf("")},
		"temperature": {Type: reflect.TypeOf(float64(0))},
	}
}

func (f *stubCallFunc) Invoke(ctx context.Context, params map[string]any) (any, error) {
	f.mu.Lock()
	f.invocations++
	f.lastParams = params
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *stubCallFunc) invoked() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.invocations
}

// stubProvider maps the first user message to a "prompt" parameter and turns
// the raw response string into one assistant message. tagOutput controls
// whether translation stamps the origin, so tests can exercise both a
// correct and a broken adapter.
type stubProvider struct {
	fn        CallFunc
	tagOutput bool
	badParam  string // when set, TranslateToBackend adds this undeclared key
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) CallFunction(hint map[string]any) CallFunc { return p.fn }

func (p *stubProvider) DisallowedParams() map[string]struct{} {
	return DefaultDisallowedParams()
}

func (p *stubProvider) TranslateToBackend(call *CallParams) (map[string]any, error) {
	native := map[string]any{
		"model":  call.Model,
		"prompt": call.Messages[0].Text().Content,
	}
	for k, v := range call.Extra {
		native[k] = v
	}
	if p.badParam != "" {
		native[p.badParam] = true
	}
	return native, nil
}

func (p *stubProvider) TranslateFromBackend(ctx context.Context, raw any, call *CallParams, originID string, logger *slog.Logger) ([]api.Message, api.Metadata, error) {
	text := api.NewText(raw.(string))
	if p.tagOutput && originID != "" {
		text = text.Tag(originID)
	}
	msg := api.NewMessage(api.RoleAssistant, text)
	return []api.Message{msg}, api.Metadata{
		"usage": api.Usage{InputTokens: 3, OutputTokens: 5, TotalTokens: 8},
	}, nil
}

// recordingObserver captures observations for assertions.
type recordingObserver struct {
	calls      int
	violations []ViolationKind
	usage      []api.Usage
	lastErr    error
}

func (o *recordingObserver) ObserveCall(provider, model string, d time.Duration, err error) {
	o.calls++
	o.lastErr = err
}

func (o *recordingObserver) ObserveViolation(provider string, kind ViolationKind) {
	o.violations = append(o.violations, kind)
}

func (o *recordingObserver) ObserveUsage(provider, model string, usage api.Usage) {
	o.usage = append(o.usage, usage)
}

func newStub(tag bool) (*stubProvider, *stubCallFunc) {
	fn := &stubCallFunc{response: "hi there"}
	return &stubProvider{fn: fn, tagOutput: tag}, fn
}

func userCall(extra map[string]any) *CallParams {
	return &CallParams{
		Model:    "m1",
		Messages: []api.Message{api.NewUserMessage("hi")},
		Extra:    extra,
	}
}

func TestCall_EndToEnd(t *testing.T) {
	p, fn := newStub(true)
	obs := &recordingObserver{}

	result, err := Call(context.Background(), p, userCall(map[string]any{"temperature": 0.2}),
		WithOriginID("run-42"),
		WithObserver(obs),
	)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	wantNative := map[string]any{"model": "m1", "prompt": "hi", "temperature": 0.2}
	if !reflect.DeepEqual(result.NativeParams, wantNative) {
		t.Errorf("native params = %v, want %v", result.NativeParams, wantNative)
	}
	if !reflect.DeepEqual(fn.lastParams, wantNative) {
		t.Errorf("backend received %v, want %v", fn.lastParams, wantNative)
	}

	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}
	msg := result.Messages[0]
	if msg.Role != api.RoleAssistant {
		t.Errorf("expected assistant role, got %s", msg.Role)
	}
	if text := msg.Text(); text.Content != "hi there" || text.Origin != "run-42" {
		t.Errorf("text = %+v, want content %q origin %q", text, "hi there", "run-42")
	}

	if obs.calls != 1 {
		t.Errorf("observer saw %d calls, want 1", obs.calls)
	}
	if len(obs.usage) != 1 || obs.usage[0].TotalTokens != 8 {
		t.Errorf("observer usage = %v, want one entry with 8 total tokens", obs.usage)
	}
}

func TestCall_UntaggingProviderFails(t *testing.T) {
	p, _ := newStub(false)
	obs := &recordingObserver{}

	_, err := Call(context.Background(), p, userCall(nil),
		WithOriginID("run-42"),
		WithObserver(obs),
	)
	requireKind(t, err, KindUntrackedMessage)

	if len(obs.violations) != 1 || obs.violations[0] != KindUntrackedMessage {
		t.Errorf("observer violations = %v, want [untracked_message]", obs.violations)
	}
}

func TestCall_WithoutOriginSkipsProvenance(t *testing.T) {
	// An adapter that never tags is fine when tracking is off.
	p, _ := newStub(false)

	result, err := Call(context.Background(), p, userCall(nil))
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	if result.Messages[0].Text().Tagged() {
		t.Error("expected untagged output without origin ID")
	}
}

func TestCall_DisallowedExtraRejectedBeforeBackend(t *testing.T) {
	p, fn := newStub(true)
	obs := &recordingObserver{}

	_, err := Call(context.Background(), p, userCall(map[string]any{"model": "other"}),
		WithObserver(obs),
	)
	v := requireKind(t, err, KindDisallowedParam)
	if v.Param != "model" {
		t.Errorf("expected param %q, got %q", "model", v.Param)
	}
	if fn.invoked() != 0 {
		t.Errorf("backend invoked %d times, want 0", fn.invoked())
	}
	if obs.calls != 0 {
		t.Errorf("observer saw %d calls, want 0", obs.calls)
	}
}

func TestCall_BrokenTranslationFailsValidation(t *testing.T) {
	p, fn := newStub(true)
	p.badParam = "bogus"

	_, err := Call(context.Background(), p, userCall(nil))
	v := requireKind(t, err, KindUnexpectedParam)
	if v.Param != "bogus" {
		t.Errorf("expected param %q, got %q", "bogus", v.Param)
	}
	if fn.invoked() != 0 {
		t.Errorf("backend invoked %d times, want 0", fn.invoked())
	}
}

func TestCall_TypeMismatchFromExtras(t *testing.T) {
	p, fn := newStub(true)

	_, err := Call(context.Background(), p, userCall(map[string]any{"temperature": "warm"}))
	requireKind(t, err, KindTypeMismatch)
	if fn.invoked() != 0 {
		t.Errorf("backend invoked %d times, want 0", fn.invoked())
	}
}

func TestCall_BackendErrorPassesThrough(t *testing.T) {
	p, fn := newStub(true)
	sentinel := errors.New("connection refused")
	fn.err = sentinel
	obs := &recordingObserver{}

	_, err := Call(context.Background(), p, userCall(nil), WithObserver(obs))
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel backend error, got %v", err)
	}
	var v *Violation
	if errors.As(err, &v) {
		t.Errorf("backend error must not be a contract violation: %v", v)
	}
	if obs.lastErr == nil {
		t.Error("observer should see the backend error")
	}
	if len(obs.violations) != 0 {
		t.Errorf("observer violations = %v, want none", obs.violations)
	}
}

func TestAvailableParams_ExcludesDisallowed(t *testing.T) {
	// A call function that happens to declare the derived names too.
	fn := &countingCallFunc{spec: ParamSpec{
		"model":       {Required: true},
		"messages":    {Required: true},
		"tools":       {},
		"temperature": {},
		"max_tokens":  {},
	}}
	p := &stubProvider{fn: fn}

	got := AvailableParams(p, nil)
	want := []string{"max_tokens", "temperature"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AvailableParams = %v, want %v", got, want)
	}
}

func TestCall_ConcurrentUse(t *testing.T) {
	p, _ := newStub(true)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := Call(context.Background(), p, userCall(nil), WithOriginID("run-c"))
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent call failed: %v", err)
		}
	}
}
