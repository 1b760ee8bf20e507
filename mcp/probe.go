// Package mcp verifies converted MCP server entries by speaking the Model
// Context Protocol to them. It is used by "ccport verify" to confirm that
// a converted stdio server actually launches and serves tools.
package mcp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ccport/ccport/convert"
)

// ToolInfo describes one tool reported by a probed server.
type ToolInfo struct {
	Name        string
	Description string
}

// Report is the outcome of probing a single server entry.
type Report struct {
	Server string
	Tools  []ToolInfo
}

// Option configures a probe.
type Option func(*probeConfig)

type probeConfig struct {
	timeout time.Duration
}

// WithTimeout bounds the whole connect-and-list exchange.
func WithTimeout(d time.Duration) Option {
	return func(c *probeConfig) {
		c.timeout = d
	}
}

// ProbeStdio launches the entry's command, connects over stdio, lists the
// server's tools and shuts the connection down again. Only stdio entries
// can be probed; URL-based entries return an error.
func ProbeStdio(ctx context.Context, name string, entry convert.ServerEntry, opts ...Option) (*Report, error) {
	cfg := &probeConfig{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	if entry.Type != convert.ServerTypeStdio {
		return nil, fmt.Errorf("server %s: only stdio servers can be probed", name)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "ccport",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.CommandTransport{
		Command: buildCommand(entry),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to server %s: %w", name, err)
	}
	defer session.Close()

	result, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		return nil, fmt.Errorf("listing tools on server %s: %w", name, err)
	}

	report := &Report{Server: name}
	for _, tool := range result.Tools {
		report.Tools = append(report.Tools, ToolInfo{
			Name:        tool.Name,
			Description: tool.Description,
		})
	}
	sort.Slice(report.Tools, func(i, j int) bool {
		return report.Tools[i].Name < report.Tools[j].Name
	})
	return report, nil
}

// buildCommand prepares the subprocess for a stdio entry. The converted
// env map is appended to the current environment so prefixed keys reach
// the server as-is.
func buildCommand(entry convert.ServerEntry) *exec.Cmd {
	cmd := exec.Command(entry.Command, entry.Args...)
	if len(entry.Env) > 0 {
		env := os.Environ()
		keys := make([]string, 0, len(entry.Env))
		for k := range entry.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			env = append(env, k+"="+entry.Env[k])
		}
		cmd.Env = env
	}
	return cmd
}
