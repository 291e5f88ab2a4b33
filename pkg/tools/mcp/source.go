// Package mcp discovers tool definitions from MCP (Model Context Protocol)
// servers so callers can offer them to models via CallParams.Tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modelgate/modelgate/pkg/api"
	"github.com/modelgate/modelgate/pkg/debug"
)

// ServerConfig describes one MCP server connection.
type ServerConfig struct {
	Name      string
	Transport string // "sse" or "streamable-http" (default)
	URL       string
	Headers   map[string]string
}

// Source wraps an MCP SDK client and session for a single server connection.
// It handles connection lifecycle and tool discovery; discovered tools are
// cached until the source is closed.
type Source struct {
	cfg     ServerConfig
	client  *mcp.Client
	session *mcp.ClientSession

	mu       sync.Mutex
	cached   []api.ToolDefinition
	resolved bool
}

// NewSource creates a Source for the given server configuration.
// Call Connect to establish the connection.
func NewSource(cfg ServerConfig) *Source {
	return &Source{cfg: cfg}
}

// Connect establishes the MCP connection to the server, performing the
// protocol handshake.
func (s *Source) Connect(ctx context.Context) error {
	return s.ConnectWithTransport(ctx, nil)
}

// ConnectWithTransport establishes the MCP connection using the given
// transport. If transport is nil, a transport is created from the server
// configuration. An explicit transport bypasses URL-based setup (used by
// tests with in-memory transports).
func (s *Source) ConnectWithTransport(ctx context.Context, transport mcp.Transport) error {
	s.client = mcp.NewClient(
		&mcp.Implementation{
			Name:    "modelgate",
			Version: "1.0.0",
		},
		&mcp.ClientOptions{
			Capabilities: &mcp.ClientCapabilities{},
		},
	)

	if transport == nil {
		t, err := s.createTransport()
		if err != nil {
			return fmt.Errorf("creating transport for %q: %w", s.cfg.Name, err)
		}
		transport = t
	}

	session, err := s.client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connecting to MCP server %q: %w", s.cfg.Name, err)
	}
	s.session = session
	return nil
}

// createTransport creates an MCP transport based on the server configuration.
func (s *Source) createTransport() (mcp.Transport, error) {
	httpClient := s.buildHTTPClient()

	switch s.cfg.Transport {
	case "sse":
		transport := &mcp.SSEClientTransport{
			Endpoint: s.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	case "streamable-http", "":
		transport := &mcp.StreamableClientTransport{
			Endpoint: s.cfg.URL,
		}
		if httpClient != nil {
			transport.HTTPClient = httpClient
		}
		return transport, nil

	default:
		return nil, fmt.Errorf("unsupported transport type %q", s.cfg.Transport)
	}
}

// buildHTTPClient returns an HTTP client that adds the configured static
// headers to every request, or nil when no headers are configured.
func (s *Source) buildHTTPClient() *http.Client {
	if len(s.cfg.Headers) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerTransport{
			base:    http.DefaultTransport,
			headers: s.cfg.Headers,
		},
	}
}

// headerTransport is an http.RoundTripper that adds custom headers to
// every request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}

// Tools queries the server for available tools, converts them to
// api.ToolDefinition, and caches the result. Subsequent calls return the
// cached tools.
func (s *Source) Tools(ctx context.Context) ([]api.ToolDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resolved {
		return s.cached, nil
	}

	if s.session == nil {
		return nil, fmt.Errorf("MCP source %q not connected", s.cfg.Name)
	}

	var defs []api.ToolDefinition
	for tool, err := range s.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools from %q: %w", s.cfg.Name, err)
		}
		td, convErr := convertTool(tool)
		if convErr != nil {
			return nil, fmt.Errorf("converting tool %q from %q: %w", tool.Name, s.cfg.Name, convErr)
		}
		defs = append(defs, td)
	}

	debug.Log("tools", "discovered MCP tools", "server", s.cfg.Name, "count", len(defs))
	s.cached = defs
	s.resolved = true
	return defs, nil
}

// Close closes the MCP session.
func (s *Source) Close() error {
	if s.session != nil {
		return s.session.Close()
	}
	return nil
}

// convertTool converts an MCP Tool to an api.ToolDefinition.
func convertTool(t *mcp.Tool) (api.ToolDefinition, error) {
	var params json.RawMessage
	if t.InputSchema != nil {
		data, err := json.Marshal(t.InputSchema)
		if err != nil {
			return api.ToolDefinition{}, fmt.Errorf("marshaling input schema: %w", err)
		}
		params = data
	}

	return api.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  params,
	}, nil
}
