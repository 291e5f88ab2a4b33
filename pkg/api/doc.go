// Package api defines the normalized value types exchanged through the
// provider contract: messages, content blocks, tool definitions, and the
// provenance-tagged Text wrapper.
//
// These types are backend-agnostic. Adapters translate them to and from
// whatever shape a specific backend expects.
package api
