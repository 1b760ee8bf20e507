// Package convert turns a loaded plugin into a target-dialect bundle.
// All conversion logic is shared; per-target behavior is supplied as data
// through the Target value.
package convert

import "sort"

// Target describes one output dialect. The conversion pipeline is generic;
// everything dialect-specific lives here.
type Target struct {
	Name       string // registry key, e.g. "opencode"
	DirName    string // project-relative config directory, e.g. ".opencode"
	HomeDir    string // home-relative config directory, e.g. "~/.config/opencode"
	AgentExt   string // extension for agent files, e.g. ".md"
	ConfigFile string // shared server-config filename, e.g. "opencode.json"
	ServersKey string // top-level key wrapping server entries
	EnvPrefix  string // required prefix for server env variable names

	// BodyLimit is the dialect's maximum agent body length in bytes;
	// zero means unlimited. When WarnBodyLimit is set an oversized body
	// produces a warning but is still emitted in full.
	BodyLimit     int
	WarnBodyLimit bool

	// WarnDroppedFields reports command fields the dialect cannot
	// express (allowed tools, model override, model-invocation flag)
	// instead of dropping them silently.
	WarnDroppedFields bool

	// SupportsHTTP indicates the dialect can address URL-based MCP
	// servers. When false such servers are dropped with a warning.
	SupportsHTTP bool
}

var targets = map[string]*Target{
	"opencode": {
		Name:         "opencode",
		DirName:      ".opencode",
		HomeDir:      "~/.config/opencode",
		AgentExt:     ".md",
		ConfigFile:   "opencode.json",
		ServersKey:   "mcp",
		EnvPrefix:    "OPENCODE",
		SupportsHTTP: true,
	},
	"gemini": {
		Name:          "gemini",
		DirName:       ".gemini",
		HomeDir:       "~/.gemini",
		AgentExt:      ".md",
		ConfigFile:    "settings.json",
		ServersKey:    "mcpServers",
		EnvPrefix:     "GEMINI",
		BodyLimit:     32768,
		WarnBodyLimit: true,
		SupportsHTTP:  true,
	},
	"qwen": {
		Name:         "qwen",
		DirName:      ".qwen",
		HomeDir:      "~/.qwen",
		AgentExt:     ".md",
		ConfigFile:   "settings.json",
		ServersKey:   "mcpServers",
		EnvPrefix:    "QWEN",
		SupportsHTTP: true,
	},
}

// Lookup returns the built-in target with the given name.
func Lookup(name string) (*Target, bool) {
	t, ok := targets[name]
	return t, ok
}

// Targets returns all built-in targets sorted by name.
func Targets() []*Target {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]*Target, 0, len(names))
	for _, name := range names {
		result = append(result, targets[name])
	}
	return result
}
