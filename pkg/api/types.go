package api

import (
	"encoding/json"
	"strings"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Content block types.
const (
	ContentTypeText       = "text"
	ContentTypeToolCall   = "tool_call"
	ContentTypeToolResult = "tool_result"
)

// ContentBlock is one typed unit of message content. Exactly one of the
// payload fields is set, matching Type.
type ContentBlock struct {
	Type       string      `json:"type"`
	Text       *Text       `json:"text,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

// TextBlock returns a content block wrapping the given text.
func TextBlock(t Text) ContentBlock {
	return ContentBlock{Type: ContentTypeText, Text: &t}
}

// ToolCall is a model-issued request to invoke a tool.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolResult is the outcome of executing a tool call, fed back to the model.
type ToolResult struct {
	CallID  string `json:"call_id"`
	Output  string `json:"output"`
	IsError bool   `json:"is_error,omitempty"`
}

// ToolDefinition describes a tool the model may call. Parameters holds the
// JSON Schema of the tool's arguments.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Message is one entry in a conversation: a role and ordered content blocks.
// Block order is meaningful and must survive translation.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// NewMessage returns a message with a single text block.
func NewMessage(role Role, text Text) Message {
	return Message{Role: role, Content: []ContentBlock{TextBlock(text)}}
}

// NewUserMessage returns a user message with untagged text content.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, NewText(content))
}

// NewSystemMessage returns a system message with untagged text content.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, NewText(content))
}

// Text returns the message's text projection: the concatenation of all text
// blocks, joined with newlines. The projection carries an origin tag only
// when every text block is tagged with the same origin.
func (m Message) Text() Text {
	var parts []string
	origin := ""
	first := true
	for _, b := range m.Content {
		if b.Type != ContentTypeText || b.Text == nil {
			continue
		}
		parts = append(parts, b.Text.Content)
		if first {
			origin = b.Text.Origin
			first = false
		} else if b.Text.Origin != origin {
			origin = ""
		}
	}
	return Text{Content: strings.Join(parts, "\n"), Origin: origin}
}

// HasText reports whether the message contains at least one text block.
func (m Message) HasText() bool {
	for _, b := range m.Content {
		if b.Type == ContentTypeText && b.Text != nil {
			return true
		}
	}
	return false
}

// ToolCalls returns the tool calls embedded in the message, in block order.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, b := range m.Content {
		if b.Type == ContentTypeToolCall && b.ToolCall != nil {
			calls = append(calls, *b.ToolCall)
		}
	}
	return calls
}

// Metadata is an open, backend-defined mapping of auxiliary response fields
// (token counts, finish reason, response IDs). Opaque to the contract core
// beyond being passed through.
type Metadata map[string]any

// Usage holds token accounting for one backend call. Adapters conventionally
// store it under Metadata["usage"].
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}
