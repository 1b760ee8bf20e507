// Package plugin loads Claude Code-style plugins into an in-memory entity
// model suitable for conversion to other assistant dialects.
package plugin

import (
	"encoding/json"
	"fmt"
)

// Plugin represents a loaded Claude Code-style plugin.
type Plugin struct {
	// Metadata from plugin.json
	Name        string
	Description string
	Version     string
	Author      Author

	// Components
	Commands []Command
	Agents   []Agent
	Skills   []Skill

	// Lifecycle hooks, keyed by event name. Hook content is opaque to
	// conversion; presence of at least one entry is what matters.
	Hooks map[string][]HookMatcher

	// MCP servers configuration
	MCPServers map[string]MCPServer

	// Root path of the plugin
	RootPath string
}

// Author represents plugin author information.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Command represents a slash command defined in a plugin.
// Commands in subdirectories get namespaced names, e.g. "workflows:plan"
// for commands/workflows/plan.md.
type Command struct {
	Name                   string
	Description            string
	ArgumentHint           string
	AllowedTools           []string
	Model                  string
	DisableModelInvocation bool
	Content                string
	FilePath               string
}

// Agent represents a subagent defined in a plugin.
type Agent struct {
	Name         string   // Display name: frontmatter override or filename
	Description  string   // From frontmatter
	Capabilities []string // Ordered free-text bullets
	Model        string   // Optional model identifier
	Content      string   // Markdown content (agent instructions)
	FilePath     string   // Original file path
}

// Skill represents an agent skill defined in a plugin. The directory
// contents are owned by the plugin and treated as opaque by converters.
type Skill struct {
	Name        string // Derived from directory name
	Description string // From frontmatter
	SourceDir   string // Skill directory path
}

// HookMatcher groups hook definitions under a matcher pattern.
type HookMatcher struct {
	Matcher string `json:"matcher,omitempty"`
	Hooks   []Hook `json:"hooks"`
}

// Hook is a single lifecycle hook definition.
type Hook struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// StdioServer is a command-launched MCP server.
type StdioServer struct {
	Command string
	Args    []string
}

// HTTPServer is a URL-addressed MCP server.
type HTTPServer struct {
	URL     string
	Headers map[string]string
}

// MCPServer is an MCP server definition. Exactly one of Stdio or HTTP is
// set; the JSON codec below enforces the exclusivity.
type MCPServer struct {
	Stdio *StdioServer
	HTTP  *HTTPServer
	Env   map[string]string
}

type mcpServerJSON struct {
	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// UnmarshalJSON decodes a server entry, rejecting definitions that supply
// both a command and a URL, or neither.
func (s *MCPServer) UnmarshalJSON(data []byte) error {
	var raw mcpServerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case raw.Command != "" && raw.URL != "":
		return fmt.Errorf("server defines both command and url")
	case raw.Command != "":
		s.Stdio = &StdioServer{Command: raw.Command, Args: raw.Args}
	case raw.URL != "":
		s.HTTP = &HTTPServer{URL: raw.URL, Headers: raw.Headers}
	default:
		return fmt.Errorf("server defines neither command nor url")
	}
	s.Env = raw.Env
	return nil
}

// MarshalJSON encodes the server back to the on-disk shape.
func (s MCPServer) MarshalJSON() ([]byte, error) {
	raw := mcpServerJSON{Env: s.Env}
	switch {
	case s.Stdio != nil:
		raw.Command = s.Stdio.Command
		raw.Args = s.Stdio.Args
	case s.HTTP != nil:
		raw.URL = s.HTTP.URL
		raw.Headers = s.HTTP.Headers
	}
	return json.Marshal(raw)
}

// Manifest represents the plugin.json structure.
type Manifest struct {
	Name        string  `json:"name" jsonschema:"required,description=Plugin name"`
	Description string  `json:"description,omitempty"`
	Version     string  `json:"version,omitempty"`
	Author      *Author `json:"author,omitempty"`

	// Custom paths for components
	Commands string `json:"commands,omitempty"`
	Agents   string `json:"agents,omitempty"`
	Skills   string `json:"skills,omitempty"`
}

// commandFrontmatter represents the YAML frontmatter in command files.
type commandFrontmatter struct {
	Description            string   `yaml:"description"`
	ArgumentHint           string   `yaml:"argument-hint"`
	AllowedTools           []string `yaml:"allowed-tools"`
	Model                  string   `yaml:"model"`
	DisableModelInvocation bool     `yaml:"disable-model-invocation"`
}

// agentFrontmatter represents the YAML frontmatter in agent files.
type agentFrontmatter struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Capabilities []string `yaml:"capabilities"`
	Model        string   `yaml:"model"`
}

// skillFrontmatter represents the YAML frontmatter in SKILL.md files.
type skillFrontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
