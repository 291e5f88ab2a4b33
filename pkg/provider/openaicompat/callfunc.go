package openaicompat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/modelgate/modelgate/pkg/debug"
	"github.com/modelgate/modelgate/pkg/provider"
)

// chatSpec declares the parameter contract of the Chat Completions call
// function. Required: model and messages. Everything else is optional and
// caller-overridable via extras.
var chatSpec = provider.ParamSpec{
	"model":             {Required: true, Type: reflect.TypeOf("")},
	"messages":          {Required: true, Type: reflect.TypeOf([]chatMessage(nil))},
	"tools":             {Type: reflect.TypeOf([]chatTool(nil))},
	"temperature":       {Type: reflect.TypeOf(float64(0))},
	"top_p":             {Type: reflect.TypeOf(float64(0))},
	"frequency_penalty": {Type: reflect.TypeOf(float64(0))},
	"presence_penalty":  {Type: reflect.TypeOf(float64(0))},
	"max_tokens":        {Type: reflect.TypeOf(int(0))},
	"seed":              {Type: reflect.TypeOf(int(0))},
	"stop":              {Type: reflect.TypeOf([]string(nil))},
	"stream":            {Type: reflect.TypeOf(false)},
	"user":              {Type: reflect.TypeOf("")},
	"response_format":   {},
}

// chatCallFunc performs the /v1/chat/completions call. One instance lives on
// each Provider so its identity is stable and the inspection cache stays
// effective.
type chatCallFunc struct {
	p *Provider
}

// Spec returns the declared Chat Completions parameter contract.
func (f *chatCallFunc) Spec() provider.ParamSpec {
	return chatSpec
}

// Invoke POSTs the native parameter map to the backend and decodes the
// response. Errors are *BackendError values and propagate to the caller
// unchanged.
func (f *chatCallFunc) Invoke(ctx context.Context, params map[string]any) (any, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, &BackendError{Message: fmt.Sprintf("marshaling request: %s", err.Error())}
	}

	url := f.p.cfg.BaseURL + "/v1/chat/completions"
	debug.Log("providers", "backend request", "url", url, "bytes", len(body))
	debug.Trace("providers", "backend request body", "body", debug.Truncate(string(body), 2048))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &BackendError{Message: fmt.Sprintf("creating HTTP request: %s", err.Error())}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if f.p.cfg.Credential != nil {
		if err := f.p.cfg.Credential.Apply(httpReq); err != nil {
			return nil, &BackendError{Message: fmt.Sprintf("applying credential: %s", err.Error())}
		}
	}

	httpResp, err := f.p.client.Do(httpReq)
	if err != nil {
		return nil, mapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, mapHTTPError(httpResp)
	}

	var chatResp chatCompletionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, &BackendError{Message: fmt.Sprintf("parsing backend response: %s", err.Error())}
	}
	return &chatResp, nil
}
