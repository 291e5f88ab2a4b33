// Package openaicompat adapts Chat-Completions-compatible backends (OpenAI,
// vLLM, LiteLLM, Ollama and friends) to the provider contract.
//
// The adapter derives model, messages, and tools from the normalized call
// description, layers caller extras on top, and sends the result to
// /v1/chat/completions. Responses come back as normalized assistant
// messages with provenance tags applied when requested.
package openaicompat
