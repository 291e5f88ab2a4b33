// Command demo issues one model call through a configured backend and
// prints the normalized result.
//
// Usage:
//
//	demo -config modelgate.yaml -backend default -prompt "What is the capital of France?"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/modelgate/modelgate/pkg/api"
	"github.com/modelgate/modelgate/pkg/auth"
	"github.com/modelgate/modelgate/pkg/config"
	"github.com/modelgate/modelgate/pkg/debug"
	"github.com/modelgate/modelgate/pkg/observability"
	"github.com/modelgate/modelgate/pkg/provider"
	"github.com/modelgate/modelgate/pkg/provider/openaicompat"
	mcptools "github.com/modelgate/modelgate/pkg/tools/mcp"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	backendName := flag.String("backend", "default", "backend name from config")
	model := flag.String("model", "", "model identifier (overrides backend default)")
	prompt := flag.String("prompt", "Say hello in one sentence.", "user prompt")
	temperature := flag.Float64("temperature", 0, "sampling temperature (0 = backend default)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("loading config: %v", err)
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)

	backend, ok := cfg.Backends[*backendName]
	if !ok {
		fatal("backend %q not configured (set MODELGATE_BACKEND_URL or add it to the config file)", *backendName)
	}

	credential, err := buildCredential(backend)
	if err != nil {
		fatal("building credential: %v", err)
	}

	p, err := openaicompat.New(openaicompat.Config{
		BaseURL:          backend.BaseURL,
		Credential:       credential,
		Timeout:          backend.Timeout,
		DefaultMaxTokens: backend.MaxTokens,
	})
	if err != nil {
		fatal("creating provider: %v", err)
	}

	callModel := *model
	if callModel == "" {
		callModel = backend.DefaultModel
	}
	if callModel == "" {
		fatal("no model given and backend %q has no default_model", *backendName)
	}

	ctx := context.Background()

	call := &provider.CallParams{
		Model:    callModel,
		Messages: []api.Message{api.NewUserMessage(*prompt)},
	}
	if *temperature > 0 {
		call.Extra = map[string]any{"temperature": *temperature}
	}

	if len(cfg.Tools.MCP) > 0 {
		pool := buildToolPool(cfg.Tools.MCP)
		if err := pool.Connect(ctx); err != nil {
			fatal("connecting MCP servers: %v", err)
		}
		defer pool.Close()

		tools, err := pool.Tools(ctx)
		if err != nil {
			fatal("discovering MCP tools: %v", err)
		}
		call.Tools = tools
		fmt.Printf("discovered %d MCP tools\n", len(tools))
	}

	fmt.Printf("overridable params: %v\n", provider.AvailableParams(p, nil))

	originID := api.NewOriginID()
	result, err := provider.Call(ctx, p, call,
		provider.WithOriginID(originID),
		provider.WithObserver(observability.NewMetrics()),
	)
	if err != nil {
		fatal("call failed: %v", err)
	}

	for i, msg := range result.Messages {
		text := msg.Text()
		fmt.Printf("[%d] %s (origin %s):\n%s\n", i, msg.Role, text.Origin, text.Content)
		for _, tc := range msg.ToolCalls() {
			fmt.Printf("    tool call %s: %s(%s)\n", tc.ID, tc.Name, tc.Arguments)
		}
	}
	if usage, ok := result.Metadata["usage"].(api.Usage); ok {
		fmt.Printf("usage: %d in / %d out / %d total\n",
			usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
	}
}

func buildToolPool(servers []config.MCPServerConfig) *mcptools.Pool {
	sources := make([]*mcptools.Source, 0, len(servers))
	for _, s := range servers {
		sources = append(sources, mcptools.NewSource(mcptools.ServerConfig{
			Name:      s.Name,
			Transport: s.Transport,
			URL:       s.URL,
			Headers:   s.Headers,
		}))
	}
	return mcptools.NewPool(sources...)
}

func buildCredential(b config.BackendConfig) (auth.Credential, error) {
	if b.ServiceToken != nil {
		return auth.NewServiceToken(auth.ServiceTokenConfig{
			Secret:   []byte(b.ServiceToken.Secret),
			Issuer:   b.ServiceToken.Issuer,
			Subject:  b.ServiceToken.Subject,
			Audience: b.ServiceToken.Audience,
			TTL:      b.ServiceToken.TTL,
		})
	}
	return &auth.StaticKey{Key: b.APIKey}, nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
