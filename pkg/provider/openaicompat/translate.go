package openaicompat

import (
	"encoding/json"
	"fmt"

	"github.com/modelgate/modelgate/pkg/api"
)

// translateMessages converts normalized messages into Chat Completions
// messages, preserving conversation order.
func translateMessages(messages []api.Message) []chatMessage {
	out := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		cm := chatMessage{Role: string(m.Role)}

		if m.Role == api.RoleTool {
			// Tool results travel as dedicated tool-role messages.
			for _, b := range m.Content {
				if b.Type == api.ContentTypeToolResult && b.ToolResult != nil {
					cm.Content = b.ToolResult.Output
					cm.ToolCallID = b.ToolResult.CallID
					break
				}
			}
			out = append(out, cm)
			continue
		}

		if m.HasText() {
			cm.Content = m.Text().Content
		}
		for _, tc := range m.ToolCalls() {
			cm.ToolCalls = append(cm.ToolCalls, chatToolCall{
				ID:   tc.ID,
				Type: "function",
				Function: chatFunctionCall{
					Name:      tc.Name,
					Arguments: string(tc.Arguments),
				},
			})
		}
		out = append(out, cm)
	}
	return out
}

// translateTools converts normalized tool definitions into Chat Completions
// tool entries, preserving order.
func translateTools(tools []api.ToolDefinition) []chatTool {
	out := make([]chatTool, 0, len(tools))
	for _, td := range tools {
		out = append(out, chatTool{
			Type: "function",
			Function: chatFunctionDef{
				Name:        td.Name,
				Description: td.Description,
				Parameters:  td.Parameters,
			},
		})
	}
	return out
}

// translateResponse converts a Chat Completions response into normalized
// messages and metadata. Choices map to assistant messages in backend order;
// text content is tagged with originID when provenance tracking is on.
func translateResponse(resp *chatCompletionResponse, originID string) ([]api.Message, api.Metadata) {
	messages := make([]api.Message, 0, len(resp.Choices))
	metadata := api.Metadata{
		"id":    resp.ID,
		"model": resp.Model,
	}

	for i, choice := range resp.Choices {
		msg := api.Message{Role: api.RoleAssistant}

		if content, ok := choice.Message.Content.(string); ok && content != "" {
			text := api.NewText(content)
			if originID != "" {
				text = text.Tag(originID)
			}
			msg.Content = append(msg.Content, api.TextBlock(text))
		}

		for _, tc := range choice.Message.ToolCalls {
			call := api.ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: json.RawMessage(tc.Function.Arguments),
			}
			msg.Content = append(msg.Content, api.ContentBlock{
				Type:     api.ContentTypeToolCall,
				ToolCall: &call,
			})
		}

		messages = append(messages, msg)
		if i == 0 {
			metadata["finish_reason"] = choice.FinishReason
		}
	}

	if resp.Usage != nil {
		metadata["usage"] = api.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return messages, metadata
}

// coerceResponse checks that the raw value handed back by the call function
// is the response type this adapter produces.
func coerceResponse(raw any) (*chatCompletionResponse, error) {
	resp, ok := raw.(*chatCompletionResponse)
	if !ok {
		return nil, fmt.Errorf("openaicompat: unexpected backend response type %T", raw)
	}
	return resp, nil
}
