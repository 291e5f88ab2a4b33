package mcp

import (
	"context"

	"github.com/modelgate/modelgate/pkg/api"
)

// Pool aggregates tool definitions from multiple MCP server sources so they
// can be offered to a model as one flat list.
type Pool struct {
	sources []*Source
}

// NewPool creates a pool over the given sources. The sources may be connected
// before or after pooling.
func NewPool(sources ...*Source) *Pool {
	return &Pool{sources: sources}
}

// Connect establishes the connection for every pooled source. The first
// failure aborts; already-connected sources stay open until Close.
func (p *Pool) Connect(ctx context.Context) error {
	for _, s := range p.sources {
		if err := s.Connect(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Tools returns the tool definitions of all pooled sources, in source order.
func (p *Pool) Tools(ctx context.Context) ([]api.ToolDefinition, error) {
	var defs []api.ToolDefinition
	for _, s := range p.sources {
		tools, err := s.Tools(ctx)
		if err != nil {
			return nil, err
		}
		defs = append(defs, tools...)
	}
	return defs, nil
}

// Close closes every pooled source, returning the first error encountered.
func (p *Pool) Close() error {
	var firstErr error
	for _, s := range p.sources {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
